package scoring

import "math"

// Policy holds the tunable point constants
type Policy struct {
	// Rate is the number of points per remaining second
	Rate float64
	// Bonus is added to every correct guess
	Bonus int
	// Floor is the minimum award for a correct guess
	Floor int
	// DrawerAward is paid to the drawer once per correct guesser
	DrawerAward int
}

// DefaultPolicy returns the standard scoring: 10 to 64 points over a 90 second round
func DefaultPolicy() Policy {
	return Policy{
		Rate:        0.6,
		Bonus:       10,
		Floor:       10,
		DrawerAward: 20,
	}
}

// GuesserPoints computes the award for a correct guess with secondsRemaining left
func (p Policy) GuesserPoints(secondsRemaining int) int {
	if secondsRemaining < 0 {
		secondsRemaining = 0
	}
	// epsilon keeps 90*0.6 from flooring to 53
	points := int(math.Floor(float64(secondsRemaining)*p.Rate+1e-9)) + p.Bonus
	return max(p.Floor, points)
}

// DrawerPoints computes the drawer's award for one correct guesser
func (p Policy) DrawerPoints() int {
	return p.DrawerAward
}
