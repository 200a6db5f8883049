package item

import (
	"fmt"
)

type ErrUnmarshal = error

func NewUnmarshalError(err error) ErrUnmarshal {
	return fmt.Errorf("failed to unmarshal item: %w", err)
}
