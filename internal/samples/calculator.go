package samples

import (
	"errors"
	"math"
	"time"

	"github.com/roach88/moonunit/internal/assert"
	"github.com/roach88/moonunit/internal/suite"
)

// ErrDivideByZero is returned by Calc.Divide for a zero divisor.
var ErrDivideByZero = errors.New("divide by zero")

// Calc is a running-total calculator.
type Calc struct {
	total float64
}

// Add adds x to the total.
func (c *Calc) Add(x float64) *Calc {
	c.total += x
	return c
}

// Mul multiplies the total by x.
func (c *Calc) Mul(x float64) *Calc {
	c.total *= x
	return c
}

// Divide divides the total by x.
func (c *Calc) Divide(x float64) (float64, error) {
	if x == 0 {
		return 0, ErrDivideByZero
	}
	c.total /= x
	return c.total, nil
}

// Total returns the running total.
func (c *Calc) Total() float64 { return c.total }

type calculatorSuite struct {
	calc *Calc
}

func newCalculatorSuite() (*calculatorSuite, error) {
	return &calculatorSuite{calc: &Calc{}}, nil
}

func (s *calculatorSuite) StartsAtZero() {
	assert.Equal(0.0, s.calc.Total(), "a new calculator must start at zero")
}

func (s *calculatorSuite) AddsAndMultiplies() {
	assert.Equal(12.0, s.calc.Add(2).Add(4).Mul(2).Total())
}

func (s *calculatorSuite) DividesWithinRange() {
	s.calc.Add(10)
	got := assert.DoValue(func() (float64, error) { return s.calc.Divide(4) })
	assert.Between(got, 2.0, 3.0)
}

func (s *calculatorSuite) RejectsZeroDivisor() {
	err := assert.Throws[error](func() error {
		_, err := s.calc.Divide(0)
		return err
	})
	assert.True(errors.Is(err, ErrDivideByZero))
}

func (s *calculatorSuite) ProducesNaN() {
	assert.NaN(math.Inf(1) - math.Inf(1))
	assert.NotNaN(s.calc.Total())
}

func (s *calculatorSuite) FinishesQuickly() {
	for i := 0; i < 1000; i++ {
		s.calc.Add(1)
	}
	time.Sleep(time.Millisecond)
	assert.Equal(1000.0, s.calc.Total())
}

func (s *calculatorSuite) Exponents() {
	assert.Fail("exponents are not implemented")
}

// Calculator returns the Calculator suite, declared with a registration
// table.
func Calculator() suite.Suite {
	return suite.Define("Calculator", newCalculatorSuite,
		suite.Test("StartsAtZero", (*calculatorSuite).StartsAtZero),
		suite.Test("AddsAndMultiplies", (*calculatorSuite).AddsAndMultiplies),
		suite.Test("DividesWithinRange", (*calculatorSuite).DividesWithinRange),
		suite.Test("RejectsZeroDivisor", (*calculatorSuite).RejectsZeroDivisor),
		suite.Test("ProducesNaN", (*calculatorSuite).ProducesNaN),
		suite.Test("FinishesQuickly", (*calculatorSuite).FinishesQuickly, suite.Timeout(1000)),
		suite.Test("Exponents", (*calculatorSuite).Exponents, suite.Skip("exponents are not implemented yet")),
	)
}
