package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomsim/timing/pipeline"
)

var _ = Describe("BranchPredictor", func() {
	var bp *pipeline.BranchPredictor

	BeforeEach(func() {
		bp = pipeline.NewBranchPredictor(1)
	})

	Describe("Target", func() {
		It("should predict not-taken on a miss", func() {
			Expect(bp.Target(100)).To(Equal(uint32(101)))
		})

		It("should return the learned target once taken history is installed", func() {
			bp.Update(100, 200, true)
			Expect(bp.Target(100)).To(Equal(uint32(200)))
		})

		It("should predict fall-through for a learned not-taken branch", func() {
			bp.Update(100, 200, false)
			Expect(bp.Target(100)).To(Equal(uint32(101)))
		})
	})

	Describe("2-bit saturating counter", func() {
		It("should install saturated in the outcome direction", func() {
			bp.Update(100, 200, true)
			Expect(bp.Entries()[0].Hist).To(Equal(pipeline.StrongTaken))

			bp.Update(300, 400, false)
			Expect(bp.Entries()[1].Hist).To(Equal(pipeline.StrongNot))
		})

		It("should require two mispredictions to change direction", func() {
			bp.Update(100, 200, true) // STRONGTAKEN

			bp.Update(100, 200, false) // WEAKTAKEN
			Expect(bp.Target(100)).To(Equal(uint32(200)))

			bp.Update(100, 200, false) // WEAKNOT
			Expect(bp.Target(100)).To(Equal(uint32(101)))
		})

		It("should saturate at both ends", func() {
			bp.Update(100, 200, true)
			bp.Update(100, 200, true)
			Expect(bp.Entries()[0].Hist).To(Equal(pipeline.StrongTaken))

			for i := 0; i < 5; i++ {
				bp.Update(100, 200, false)
			}
			Expect(bp.Entries()[0].Hist).To(Equal(pipeline.StrongNot))
		})
	})

	Describe("entry matching", func() {
		It("should install a fresh entry when the target differs", func() {
			bp.Update(100, 200, true)
			bp.Update(100, 300, true)

			entries := bp.Entries()
			Expect(entries[0].TargetPC).To(Equal(uint32(200)))
			Expect(entries[1].TargetPC).To(Equal(uint32(300)))
		})
	})

	Describe("victim selection", func() {
		fill := func(bp *pipeline.BranchPredictor) {
			for i := uint32(0); i < pipeline.BTBSize; i++ {
				bp.Update(1000+i, 2000+i, true)
			}
		}

		It("should prefer invalid slots in order", func() {
			bp.Update(100, 200, true)
			bp.Update(300, 400, true)
			entries := bp.Entries()
			Expect(entries[0].BranchPC).To(Equal(uint32(100)))
			Expect(entries[1].BranchPC).To(Equal(uint32(300)))
		})

		It("should evict a random entry when full", func() {
			fill(bp)
			bp.Update(5000, 6000, true)

			found := 0
			for _, e := range bp.Entries() {
				Expect(e.Valid).To(BeTrue())
				if e.BranchPC == 5000 {
					found++
				}
			}
			Expect(found).To(Equal(1))
			Expect(bp.Stats().Evictions).To(Equal(uint64(1)))
		})

		It("should pick the same victims for the same seed", func() {
			other := pipeline.NewBranchPredictor(1)
			fill(bp)
			fill(other)
			for i := uint32(0); i < 20; i++ {
				bp.Update(5000+i, 6000+i, true)
				other.Update(5000+i, 6000+i, true)
			}
			Expect(bp.Entries()).To(Equal(other.Entries()))
		})

		It("should diverge across seeds eventually", func() {
			other := pipeline.NewBranchPredictor(2)
			fill(bp)
			fill(other)
			same := true
			for i := uint32(0); i < 20; i++ {
				bp.Update(5000+i, 6000+i, true)
				other.Update(5000+i, 6000+i, true)
				if bp.Entries() != other.Entries() {
					same = false
				}
			}
			Expect(same).To(BeFalse())
		})
	})

	Describe("Stats", func() {
		It("should count lookups and hits", func() {
			bp.Target(100)
			bp.Update(100, 200, true)
			bp.Target(100)
			bp.Target(300)

			stats := bp.Stats()
			Expect(stats.Lookups).To(Equal(uint64(3)))
			Expect(stats.Hits).To(Equal(uint64(1)))
			Expect(stats.HitRate()).To(BeNumerically("~", 33.3, 0.1))
		})
	})

	Describe("Copy", func() {
		It("should replay identically and independently", func() {
			for i := uint32(0); i < pipeline.BTBSize; i++ {
				bp.Update(1000+i, 2000+i, true)
			}
			clone := bp.Copy()

			bp.Update(5000, 6000, true)
			clone.Update(5000, 6000, true)
			Expect(bp.Entries()).To(Equal(clone.Entries()))

			clone.Update(7000, 8000, true)
			Expect(bp.Entries()).NotTo(Equal(clone.Entries()))
		})
	})

	Describe("Reset", func() {
		It("should clear entries and statistics", func() {
			bp.Update(100, 200, true)
			bp.Target(100)
			bp.Reset()

			for _, e := range bp.Entries() {
				Expect(e.Valid).To(BeFalse())
			}
			Expect(bp.Stats()).To(Equal(pipeline.BranchPredictorStats{}))
		})
	})
})
