package seq_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dynseq/internal/seq"
)

var _ = Describe("Vector", func() {
	var v *seq.Vector[int]

	BeforeEach(func() {
		v = seq.New[int]()
	})

	Describe("appending", func() {
		It("keeps append order for any count", func() {
			for n := 0; n < 64; n++ {
				Expect(v.Append(n)).To(Succeed())
			}
			Expect(v.Len()).To(Equal(64))
			for i := 0; i < 64; i++ {
				Expect(v.At(i)).To(Equal(i))
			}
		})

		It("doubles capacity starting from one", func() {
			var seen []int
			last := v.Cap()
			for n := 0; n < 33; n++ {
				Expect(v.Append(n)).To(Succeed())
				if v.Cap() != last {
					seen = append(seen, v.Cap())
				}
				Expect(v.Cap()).To(BeNumerically(">=", last))
				last = v.Cap()
			}
			Expect(seen).To(Equal([]int{1, 2, 4, 8, 16, 32, 64}))
		})
	})

	Describe("inserting", func() {
		BeforeEach(func() {
			Expect(v.AppendAll(1, 2, 3)).To(Succeed())
		})

		DescribeTable("places the value and shifts the tail right",
			func(i int, want []int) {
				Expect(v.InsertAt(i, 9)).To(Succeed())
				Expect(v.At(i)).To(Equal(9))
				Expect(v.Values()).To(Equal(want))
			},
			Entry("front", 0, []int{9, 1, 2, 3}),
			Entry("middle", 1, []int{1, 9, 2, 3}),
			Entry("end", 3, []int{1, 2, 3, 9}),
		)

		It("rejects an index past the end", func() {
			Expect(v.InsertAt(4, 9)).To(MatchError(seq.ErrOutOfBounds))
			Expect(v.Values()).To(Equal([]int{1, 2, 3}))
		})
	})

	Describe("removing", func() {
		BeforeEach(func() {
			Expect(v.AppendAll(1, 2, 3, 4)).To(Succeed())
		})

		It("removes exactly one element and shifts the tail left", func() {
			Expect(v.RemoveAt(1)).To(Succeed())
			Expect(v.Values()).To(Equal([]int{1, 3, 4}))
			Expect(v.Cap()).To(Equal(4))
		})

		It("fails at size without mutating", func() {
			Expect(v.RemoveAt(v.Len())).To(MatchError(seq.ErrOutOfBounds))
			Expect(v.Len()).To(Equal(4))
		})

		It("restores the prior content after append then remove", func() {
			before := v.Values()
			Expect(v.Append(42)).To(Succeed())
			Expect(v.RemoveAt(v.Len() - 1)).To(Succeed())
			Expect(v.Values()).To(Equal(before))
		})
	})

	Describe("the walkthrough scenario", func() {
		It("follows the documented states", func() {
			Expect(v.AppendAll(1)).To(Succeed())
			Expect(v.Append(2)).To(Succeed())
			Expect(v.Append(3)).To(Succeed())
			Expect(v.Values()).To(Equal([]int{1, 2, 3}))
			Expect(v.Cap()).To(Equal(4))

			Expect(v.InsertAt(1, 9)).To(Succeed())
			Expect(v.Values()).To(Equal([]int{1, 9, 2, 3}))

			Expect(v.RemoveAt(0)).To(Succeed())
			Expect(v.Values()).To(Equal([]int{9, 2, 3}))

			v.Clear()
			Expect(v.Values()).To(BeEmpty())
			Expect(v.Cap()).To(Equal(4))
		})
	})

	Context("with a capacity limit", func() {
		BeforeEach(func() {
			v = seq.New(seq.WithLimit[int](2))
			Expect(v.AppendAll(7, 8)).To(Succeed())
		})

		It("reports allocation failure and keeps its state", func() {
			err := v.Append(9)
			Expect(err).To(MatchError(seq.ErrAllocation))

			var ae *seq.AllocError
			Expect(errors.As(err, &ae)).To(BeTrue())
			Expect(ae.Requested).To(Equal(4))
			Expect(v.Values()).To(Equal([]int{7, 8}))
			Expect(v.Cap()).To(Equal(2))
		})

		It("still allows operations that fit", func() {
			Expect(v.RemoveAt(0)).To(Succeed())
			Expect(v.InsertAt(0, 1)).To(Succeed())
			Expect(v.Values()).To(Equal([]int{1, 8}))
		})
	})
})
