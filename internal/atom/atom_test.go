package atom_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/ctmcsim/internal/atom"
	"github.com/san-kum/ctmcsim/internal/elements"
	"github.com/san-kum/ctmcsim/internal/physics"
)

func relative(sys *physics.System, a, b physics.BodyID) (r, v r3.Vec) {
	r = r3.Sub(sys.BodyPosition(b), sys.BodyPosition(a))
	v = r3.Sub(sys.BodyVelocity(b), sys.BodyVelocity(a))
	return r, v
}

var _ = Describe("Atom", func() {
	var sys *physics.System

	BeforeEach(func() {
		sys = physics.NewSystem()
	})

	Describe("construction", func() {
		It("builds hydrogen with one electron and a proton-like nucleus", func() {
			h, err := atom.New(sys, atom.Spec{Element: elements.H})
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Electrons()).To(HaveLen(1))
			Expect(h.Orbits()).To(Equal([]string{"1s1"}))
			Expect(h.NucleusCharge()).To(Equal(1.0))
			Expect(h.NucleusMass()).To(BeNumerically("~", elements.ProtonMass, 0.01))
			Expect(sys.Bodies()).To(Equal(2))
		})

		It("creates one Coulomb interaction per pair for the Kepler model", func() {
			_, err := atom.New(sys, atom.Spec{Element: elements.He})
			Expect(err).NotTo(HaveOccurred())
			Expect(sys.ActiveInteractions()).To(Equal(3))
		})

		It("adds a Heisenberg interaction per electron for the Cohen model", func() {
			_, err := atom.New(sys, atom.Spec{Element: elements.He, Model: atom.Cohen})
			Expect(err).NotTo(HaveOccurred())
			Expect(sys.ActiveInteractions()).To(Equal(5))
		})

		It("supports ions through the electron configuration", func() {
			ion, err := atom.New(sys, atom.Spec{Element: elements.He, Configuration: elements.H})
			Expect(err).NotTo(HaveOccurred())
			Expect(ion.Electrons()).To(HaveLen(1))
			Expect(ion.NucleusCharge()).To(Equal(2.0))
		})

		It("rejects configurations the model cannot place", func() {
			_, err := atom.New(sys, atom.Spec{Element: elements.Li})
			Expect(err).To(MatchError(atom.ErrInvalidConfiguration))

			_, err = atom.New(sys, atom.Spec{Element: elements.Li, Model: atom.Cohen})
			Expect(err).To(MatchError(elements.ErrNoCohenOrbit))

			_, err = atom.New(sys, atom.Spec{Element: elements.Element(19)})
			Expect(err).To(MatchError(elements.ErrUnsupportedElement))
		})
	})

	Describe("interactions", func() {
		It("refuses to create them twice", func() {
			h, err := atom.New(sys, atom.Spec{Element: elements.H})
			Expect(err).NotTo(HaveOccurred())
			Expect(h.CreateInteractions()).To(MatchError(atom.ErrInteractionsExist))
		})

		It("recreates them after an explicit clear", func() {
			he, err := atom.New(sys, atom.Spec{Element: elements.He})
			Expect(err).NotTo(HaveOccurred())

			Expect(he.ClearInteractions()).To(Succeed())
			Expect(sys.ActiveInteractions()).To(Equal(0))
			Expect(he.Interactions()).To(BeEmpty())

			Expect(he.CreateInteractions()).To(Succeed())
			Expect(sys.ActiveInteractions()).To(Equal(3))
		})
	})

	Describe("Kepler model", func() {
		It("installs a circular ground-state orbit at rest", func() {
			h, err := atom.New(sys, atom.Spec{Element: elements.H})
			Expect(err).NotTo(HaveOccurred())

			mu := h.ReducedMass()
			e, err := h.OrbitalEnergy("1s1")
			Expect(err).NotTo(HaveOccurred())
			Expect(e).To(BeNumerically("~", -mu/2, 1e-12))

			Expect(r3.Norm(h.Position())).To(BeNumerically("<", 1e-12))
			Expect(r3.Norm(h.Velocity())).To(BeNumerically("<", 1e-12))
		})

		It("samples every electron at the ground energy", func() {
			he, err := atom.New(sys, atom.Spec{Element: elements.He})
			Expect(err).NotTo(HaveOccurred())
			rng := rand.New(rand.NewSource(7))
			want := -he.ReducedMass() * 4 / 2

			for i := 0; i < 50; i++ {
				Expect(he.Randomize(rng)).To(Succeed())
				for _, orbit := range he.Orbits() {
					e, err := he.OrbitalEnergy(orbit)
					Expect(err).NotTo(HaveOccurred())
					Expect(e).To(BeNumerically("~", want, 1e-9))
				}
			}
		})

		It("mirrors the second helium electron through the nucleus", func() {
			he, err := atom.New(sys, atom.Spec{Element: elements.He})
			Expect(err).NotTo(HaveOccurred())
			Expect(he.Randomize(rand.New(rand.NewSource(3)))).To(Succeed())

			e := he.Electrons()
			r1, v1 := relative(sys, he.Nucleus(), e[0])
			r2, v2 := relative(sys, he.Nucleus(), e[1])
			Expect(r3.Norm(r3.Add(r1, r2))).To(BeNumerically("<", 1e-12))
			Expect(r3.Norm(r3.Add(v1, v2))).To(BeNumerically("<", 1e-12))
		})

		It("keeps the angular momentum perpendicular to the radius", func() {
			h, err := atom.New(sys, atom.Spec{Element: elements.H})
			Expect(err).NotTo(HaveOccurred())
			rng := rand.New(rand.NewSource(11))

			for i := 0; i < 20; i++ {
				Expect(h.Randomize(rng)).To(Succeed())
				l, err := h.OrbitalAngularMomentum("1s1")
				Expect(err).NotTo(HaveOccurred())
				r, _ := relative(sys, h.Nucleus(), h.Electrons()[0])
				Expect(math.Abs(r3.Dot(l, r))).To(BeNumerically("<", 1e-10))
			}
		})
	})

	Describe("Cohen model", func() {
		It("places helium electrons on opposite sides of the nucleus", func() {
			he, err := atom.New(sys, atom.Spec{Element: elements.He, Model: atom.Cohen})
			Expect(err).NotTo(HaveOccurred())

			e := he.Electrons()
			r1, _ := relative(sys, he.Nucleus(), e[0])
			r2, _ := relative(sys, he.Nucleus(), e[1])
			Expect(r3.Norm(r1)).To(BeNumerically("~", 0.5714, 1e-12))
			Expect(r3.Norm(r2)).To(BeNumerically("~", 0.5714, 1e-12))
			Expect(r3.Norm(r3.Add(r1, r2))).To(BeNumerically("<", 1e-12))
		})

		It("only rotates the configuration when randomized", func() {
			he, err := atom.New(sys, atom.Spec{Element: elements.He, Model: atom.Cohen})
			Expect(err).NotTo(HaveOccurred())
			installed := he.Energy()

			rng := rand.New(rand.NewSource(5))
			for i := 0; i < 10; i++ {
				Expect(he.Randomize(rng)).To(Succeed())
				Expect(he.Energy()).To(BeNumerically("~", installed, 1e-10))

				r, v := relative(sys, he.Nucleus(), he.Electrons()[0])
				Expect(r3.Norm(r)).To(BeNumerically("~", 0.5714, 1e-12))
				Expect(r3.Norm(v) * he.ReducedMass()).To(BeNumerically("~", 1.6686, 1e-12))
			}
		})
	})

	Describe("rigid motion", func() {
		It("moves and boosts the atom without touching its structure", func() {
			he, err := atom.New(sys, atom.Spec{Element: elements.He})
			Expect(err).NotTo(HaveOccurred())
			Expect(he.Randomize(rand.New(rand.NewSource(1)))).To(Succeed())

			e := he.Electrons()[0]
			r0, v0 := relative(sys, he.Nucleus(), e)
			energy := he.Energy()

			target := r3.Vec{X: 1, Y: -2, Z: 3}
			boost := r3.Vec{Z: 0.5}
			he.SetPosition(target)
			he.SetVelocity(boost)

			Expect(r3.Norm(r3.Sub(he.Position(), target))).To(BeNumerically("<", 1e-12))
			Expect(r3.Norm(r3.Sub(he.Velocity(), boost))).To(BeNumerically("<", 1e-12))

			r1, v1 := relative(sys, he.Nucleus(), e)
			Expect(r3.Norm(r3.Sub(r1, r0))).To(BeNumerically("<", 1e-12))
			Expect(r3.Norm(r3.Sub(v1, v0))).To(BeNumerically("<", 1e-12))
			Expect(he.Energy()).To(BeNumerically("~", energy, 1e-10))
			Expect(r3.Norm(r3.Sub(he.Impulse(), r3.Scale(he.Mass(), boost)))).To(BeNumerically("<", 1e-9))
		})
	})

	Describe("energies", func() {
		It("equals the system energy for an isolated hydrogen atom at rest", func() {
			h, err := atom.New(sys, atom.Spec{Element: elements.H})
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Randomize(rand.New(rand.NewSource(42)))).To(Succeed())
			h.SetPosition(r3.Vec{})
			h.SetVelocity(r3.Vec{})

			e, err := h.OrbitalEnergy("1s1")
			Expect(err).NotTo(HaveOccurred())
			Expect(sys.SystemEnergy()).To(BeNumerically("~", e, 1e-12))
			Expect(h.Energy()).To(BeNumerically("~", e, 1e-12))
			Expect(e).To(BeNumerically("<", 0))
		})

		It("reports the ionization energy as the negated orbital energy", func() {
			h, err := atom.New(sys, atom.Spec{Element: elements.H})
			Expect(err).NotTo(HaveOccurred())

			e, _ := h.OrbitalEnergy("1s1")
			ip, err := h.IonizationEnergy("1s1")
			Expect(err).NotTo(HaveOccurred())
			Expect(ip).To(Equal(-e))
		})

		It("rejects orbits the atom does not occupy", func() {
			h, err := atom.New(sys, atom.Spec{Element: elements.H})
			Expect(err).NotTo(HaveOccurred())

			_, err = h.OrbitalEnergy("1s2")
			Expect(err).To(MatchError(atom.ErrUnknownOrbit))
			_, err = h.OrbitalAngularMomentum("2p1")
			Expect(err).To(MatchError(atom.ErrUnknownOrbit))
		})
	})
})
