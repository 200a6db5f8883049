package pipeline

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/itemkit/itemkit/pkg/item"
)

var _ = Describe("Joins", func() {
	var eng *Engine
	var customers, orders []*item.Item

	BeforeEach(func() {
		eng = NewEngine(logger)

		customers = []*item.Item{
			item.New("C1").WithMetadata("Name", "Alice"),
			item.New("C2").WithMetadata("Name", "Bob"),
			item.New("C3").WithMetadata("Name", "Carol"),
		}
		orders = []*item.Item{
			item.New("O1").WithMetadata("CustomerId", "C2").WithMetadata("OrderName", "widgets"),
			item.New("O2").WithMetadata("CustomerId", "C4").WithMetadata("OrderName", "sprockets"),
			item.New("O3").WithMetadata("CustomerId", "C3").WithMetadata("OrderName", "flanges"),
			item.New("O4").WithMetadata("CustomerId", "C3").WithMetadata("OrderName", "gears"),
			item.New("O5").WithMetadata("CustomerId", "C2").WithMetadata("OrderName", "gadgets"),
		}
	})

	Context("in equi-join mode", func() {
		It("should emit one item per matching pair, in left-then-right order", func() {
			joined, err := eng.Join(customers, orders, JoinSpec{
				RightKey: "CustomerId",
				Exclude:  sets.New("CustomerId"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(identities(joined)).To(Equal([]string{"C2", "C2", "C3", "C3"}))

			names := make([]string, len(joined))
			for i := range joined {
				names[i], _ = joined[i].Metadata("OrderName")
			}
			Expect(names).To(Equal([]string{"widgets", "gadgets", "flanges", "gears"}))
		})

		It("should keep the left item's metadata on the output", func() {
			joined, err := eng.Join(customers, orders, JoinSpec{RightKey: "CustomerId"})
			Expect(err).NotTo(HaveOccurred())

			v, ok := joined[0].Metadata("Name")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("Bob"))
		})

		It("should never copy excluded metadata", func() {
			joined, err := eng.Join(customers, orders, JoinSpec{
				RightKey: "CustomerId",
				Exclude:  sets.New("CustomerId"),
			})
			Expect(err).NotTo(HaveOccurred())
			for _, it := range joined {
				Expect(it.HasMetadata("CustomerId")).To(BeFalse())
			}
		})

		It("should let the right side win on metadata collision", func() {
			left := []*item.Item{item.New("a").WithMetadata("Color", "red")}
			right := []*item.Item{
				item.New("a").WithMetadata("Color", "blue").WithMetadata("Shade", "dark"),
			}

			joined, err := eng.Join(left, right, JoinSpec{})
			Expect(err).NotTo(HaveOccurred())
			Expect(joined).To(HaveLen(1))

			v, _ := joined[0].Metadata("Color")
			Expect(v).To(Equal("blue"))
			v, _ = joined[0].Metadata("Shade")
			Expect(v).To(Equal("dark"))
		})

		It("should not mutate the left collection", func() {
			_, err := eng.Join(customers, orders, JoinSpec{RightKey: "CustomerId"})
			Expect(err).NotTo(HaveOccurred())
			Expect(customers[1].HasMetadata("OrderName")).To(BeFalse())
		})
	})

	Context("in group-join mode", func() {
		It("should emit exactly one item per left item", func() {
			joined, err := eng.Join(customers, orders, JoinSpec{
				RightKey: "CustomerId",
				Exclude:  sets.New("CustomerId"),
				Group:    true,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(identities(joined)).To(Equal([]string{"C1", "C2", "C3"}))
		})

		It("should aggregate match values in right order with the delimiter", func() {
			joined, err := eng.Join(customers, orders, JoinSpec{
				RightKey: "CustomerId",
				Exclude:  sets.New("CustomerId"),
				Group:    true,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(joined[0].HasMetadata("OrderName")).To(BeFalse())

			v, _ := joined[1].Metadata("OrderName")
			Expect(v).To(Equal("widgets;gadgets"))
			v, _ = joined[2].Metadata("OrderName")
			Expect(v).To(Equal("flanges;gears"))
		})

		It("should pass unmatched left items through unchanged", func() {
			joined, err := eng.Join(customers, orders, JoinSpec{
				RightKey: "CustomerId",
				Exclude:  sets.New("CustomerId"),
				Group:    true,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(joined[0].Names()).To(Equal([]string{"Name"}))
			v, _ := joined[0].Metadata("Name")
			Expect(v).To(Equal("Alice"))
		})

		It("should overwrite a left value under an aggregated name", func() {
			left := []*item.Item{
				item.New("C2").WithMetadata("OrderName", "stale"),
			}

			joined, err := eng.Join(left, orders, JoinSpec{
				RightKey: "CustomerId",
				Exclude:  sets.New("CustomerId"),
				Group:    true,
			})
			Expect(err).NotTo(HaveOccurred())

			v, _ := joined[0].Metadata("OrderName")
			Expect(v).To(Equal("widgets;gadgets"))
		})

		It("should never aggregate excluded metadata", func() {
			joined, err := eng.Join(customers, orders, JoinSpec{
				RightKey: "CustomerId",
				Exclude:  sets.New("CustomerId", "OrderName"),
				Group:    true,
			})
			Expect(err).NotTo(HaveOccurred())
			for _, it := range joined {
				Expect(it.HasMetadata("CustomerId")).To(BeFalse())
				Expect(it.HasMetadata("OrderName")).To(BeFalse())
			}
		})
	})

	Context("validating join keys", func() {
		It("should abort when a right item misses the join key", func() {
			orders = append(orders, item.New("O6"))

			joined, err := eng.Join(customers, orders, JoinSpec{RightKey: "CustomerId"})
			Expect(err).To(HaveOccurred())
			Expect(joined).To(BeNil())

			var missing *MissingJoinKeyError
			Expect(errors.As(err, &missing)).To(BeTrue())
			Expect(missing.Side).To(Equal("right"))
			Expect(missing.Key).To(Equal("CustomerId"))
		})

		It("should abort when a left item misses the join key", func() {
			joined, err := eng.Join(customers, orders, JoinSpec{
				LeftKey:  "Tier",
				RightKey: "CustomerId",
			})
			Expect(err).To(HaveOccurred())
			Expect(joined).To(BeNil())

			var missing *MissingJoinKeyError
			Expect(errors.As(err, &missing)).To(BeTrue())
			Expect(missing.Side).To(Equal("left"))
			Expect(missing.Key).To(Equal("Tier"))
		})

		It("should accept the identity pseudo-key on both sides", func() {
			joined, err := eng.Join(customers, customers, JoinSpec{})
			Expect(err).NotTo(HaveOccurred())
			Expect(joined).To(HaveLen(len(customers)))
		})
	})
})
