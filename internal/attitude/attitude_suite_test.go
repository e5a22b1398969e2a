package attitude_test

import (
	"math"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/attsim/internal/attitude"
)

func TestAttitude(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Attitude Suite")
}

func beClose(want attitude.Vec3) OmegaMatcher {
	return WithTransform(func(v attitude.Vec3) float64 {
		return v.Sub(want).Norm()
	}, BeNumerically("<", 1e-12))
}

var _ = Describe("derivative evaluators", func() {
	var (
		J    attitude.Mat3
		Jinv attitude.Mat3
		x    attitude.State
		tau  attitude.Vec3
	)

	BeforeEach(func() {
		J = attitude.Diag(1, 2, 3)
		Jinv = attitude.Diag(1, 0.5, 1.0/3.0)
		x = attitude.State{{0.1, 0.2, 0.3}, {0.01, 0.02, 0.03}}
		tau = attitude.Vec3{}
	})

	Context("at rest", func() {
		It("returns a zero derivative for every variant", func() {
			var rest attitude.State
			Expect(attitude.StateDot(rest, tau, J, Jinv)).To(Equal(attitude.State{}))
			Expect(attitude.StateDotRefFrame(rest, tau, attitude.Vec3{}, J, Jinv)).To(Equal(attitude.State{}))
			Expect(attitude.StateDotReactionWheels(rest, tau, J, Jinv, attitude.Vec3{})).To(Equal(attitude.State{}))
		})
	})

	Context("at the reference scenario", func() {
		It("matches the closed form", func() {
			dx := attitude.StateDot(x, tau, J, Jinv)
			Expect(dx.Sigma()).To(beClose(attitude.Vec3{0.00285, 0.0057, 0.00855}))
			Expect(dx.Omega()).To(beClose(attitude.Vec3{-0.0006, 0.0003, -0.0002 / 3.0}))
		})
	})

	DescribeTable("variant reductions",
		func(omegaRef, hs attitude.Vec3) {
			base := attitude.StateDot(x, tau, J, Jinv)
			ref := attitude.StateDotRefFrame(x, tau, omegaRef, J, Jinv)
			rw := attitude.StateDotReactionWheels(x, tau, J, Jinv, hs)

			Expect(ref.Omega()).To(Equal(base.Omega()))
			Expect(rw.Sigma()).To(Equal(base.Sigma()))
			if omegaRef == (attitude.Vec3{}) {
				Expect(ref).To(Equal(base))
			}
			if hs == (attitude.Vec3{}) {
				Expect(rw.Omega()).To(beClose(base.Omega()))
			}
		},
		Entry("no reference rate, no wheel momentum", attitude.Vec3{}, attitude.Vec3{}),
		Entry("rotating reference", attitude.Vec3{0, 0, 0.001}, attitude.Vec3{}),
		Entry("spinning wheels", attitude.Vec3{}, attitude.Vec3{0.1, 0.2, -0.3}),
	)

	It("keeps the wheel coupling gyroscopic", func() {
		// −[ω]ₓh_s is orthogonal to ω, so it cannot change ωᵀJ·dω/dt for J = I.
		I := attitude.Identity3
		hs := attitude.Vec3{4, -1, 2}
		with := attitude.StateDotReactionWheels(x, tau, I, I, hs)
		without := attitude.StateDotReactionWheels(x, tau, I, I, attitude.Vec3{})
		Expect(math.Abs(x.Omega().Dot(with.Omega().Sub(without.Omega())))).To(BeNumerically("<", 1e-15))
	})
})

var _ = Describe("MRP sets", func() {
	It("keeps sets inside the unit sphere", func() {
		s := attitude.Short(attitude.Vec3{3.81263, -5.30509, -2.945})
		Expect(s.Norm()).To(BeNumerically("<=", 1))
	})

	It("preserves the principal angle modulo 2π under shadowing", func() {
		s := attitude.Vec3{0.1, -0.2, 0.3}
		phi := attitude.PrincipalAngle(s)
		shadow := attitude.PrincipalAngle(attitude.ShadowSet(s))
		Expect(phi + shadow).To(BeNumerically("~", 2*math.Pi, 1e-12))
	})
})
