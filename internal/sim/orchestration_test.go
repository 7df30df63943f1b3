package sim_test

import (
	"bytes"
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/nbody/internal/dynamo"
	"github.com/san-kum/nbody/internal/metrics"
	"github.com/san-kum/nbody/internal/sim"
)

var _ = Describe("RunSteps", func() {
	var out bytes.Buffer

	BeforeEach(func() {
		out.Reset()
	})

	It("prints exactly four lines in order", func() {
		_, err := sim.RunSteps(context.Background(), &out, 10)
		Expect(err).NotTo(HaveOccurred())

		lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
		Expect(lines).To(HaveLen(4))
		Expect(lines[0]).To(Equal(sim.StartMarker))
		Expect(lines[1]).To(Equal("-0.169075164"))
		Expect(lines[2]).To(MatchRegexp(`^-0\.\d{9}$`))
		Expect(lines[3]).To(Equal(sim.EndMarker))
	})

	It("reports the same energy twice for zero steps", func() {
		result, err := sim.RunSteps(context.Background(), &out, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.EnergyAfter).To(Equal(result.EnergyBefore))
	})

	It("treats a negative count as zero steps", func() {
		result, err := sim.RunSteps(context.Background(), &out, -3)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.StepsTaken).To(BeZero())
		Expect(result.EnergyAfter).To(Equal(result.EnergyBefore))
	})

	It("is reproducible", func() {
		_, err := sim.RunSteps(context.Background(), &out, 250)
		Expect(err).NotTo(HaveOccurred())
		first := out.String()

		out.Reset()
		_, err = sim.RunSteps(context.Background(), &out, 250)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(Equal(first))
	})
})

var _ = Describe("Simulator with metrics", func() {
	It("keeps drift and momentum residual small over a sampled run", func() {
		s := sim.New()
		s.AddMetric(metrics.NewEnergyDrift())
		s.AddMetric(metrics.NewMomentumResidual())

		cfg := dynamo.DefaultConfig()
		cfg.Steps = 1000
		cfg.SampleEvery = 100

		result, err := s.Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Trace).To(HaveLen(11))
		Expect(result.Metrics).To(HaveKey("energy_drift"))
		Expect(result.Metrics["energy_drift"]).To(BeNumerically("<", 5e-4))
		Expect(result.Metrics["momentum_residual"]).To(BeNumerically("<", 1e-13))
		Expect(result.EnergyAfter - result.EnergyBefore).To(BeNumerically("~", 0, 2e-5))
	})
})
