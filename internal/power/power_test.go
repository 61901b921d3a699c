package power

import "testing"

func TestBatteryBandBoundaries(t *testing.T) {
	cases := []struct {
		millivolts int
		want       string
	}{
		{3000, "< 3.6V"},
		{3599, "< 3.6V"},
		{3600, "3.6V"},
		{4100, "4.1V"},
		{4999, "4.9V"},
		{5000, "> 5.0V"},
		{6000, "> 5.0V"},
	}

	for _, c := range cases {
		if got := BatteryBand(c.millivolts); got != c.want {
			t.Errorf("BatteryBand(%d) = %q, want %q", c.millivolts, got, c.want)
		}
	}
}

func TestLEDPolicyLowBatteryUsesFixedFlashCount(t *testing.T) {
	plan := LEDPolicy(3000)
	if plan.Count != LowBatteryFlashes {
		t.Errorf("Count = %d, want %d", plan.Count, LowBatteryFlashes)
	}
}

func TestLEDPolicyBanding(t *testing.T) {
	cases := []struct {
		millivolts int
		wantCount  int
	}{
		{3700, 1},
		{4000, 2},
		{4400, 3},
		{4600, 4},
		{5000, 4},
	}

	for _, c := range cases {
		plan := LEDPolicy(c.millivolts)
		if plan.Count != c.wantCount {
			t.Errorf("LEDPolicy(%d).Count = %d, want %d", c.millivolts, plan.Count, c.wantCount)
		}
	}
}
