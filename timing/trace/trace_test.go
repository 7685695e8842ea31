package trace_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomsim/emu"
	"github.com/sarchlab/tomsim/insts"
	"github.com/sarchlab/tomsim/timing/pipeline"
	"github.com/sarchlab/tomsim/timing/trace"
)

var _ = Describe("Recorder", func() {
	var (
		p   *pipeline.Pipeline
		rec *trace.Recorder
	)

	BeforeEach(func() {
		p = pipeline.NewPipeline(&emu.RegFile{}, emu.NewMemory(),
			pipeline.WithPredictorSeed(1))
		p.LoadInstr(16, uint32(insts.OpADDI)<<26|1<<16|5)
		p.LoadInstr(17, uint32(insts.OpHALT)<<26)
		p.SetMemorySize(18)
		rec = &trace.Recorder{}
	})

	record := func() {
		for i := 0; i < 100 && !p.Halted(); i++ {
			_, err := p.Tick()
			Expect(err).NotTo(HaveOccurred())
			rec.Record(p)
		}
		Expect(p.Halted()).To(BeTrue())
	}

	It("should record one sample per cycle", func() {
		record()
		samples := rec.Samples()
		Expect(samples).To(HaveLen(int(p.Cycles())))
		Expect(samples[0].Cycle).To(Equal(uint32(1)))
		Expect(samples[0].ROBEntries).To(Equal(1))
		Expect(samples[0].BusyStations).To(Equal(1))
	})

	Describe("SavePlot", func() {
		It("should refuse an empty recording", func() {
			Expect(rec.SavePlot("unused.png")).NotTo(Succeed())
		})

		It("should write an occupancy plot", func() {
			record()
			path := filepath.Join(GinkgoT().TempDir(), "occupancy.png")
			Expect(rec.SavePlot(path)).To(Succeed())

			info, err := os.Stat(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Size()).To(BeNumerically(">", 0))
		})
	})
})
