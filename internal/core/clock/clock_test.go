package clock

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	cases := map[int]string{
		0:    "00:00",
		5:    "00:05",
		59:   "00:59",
		60:   "01:00",
		125:  "02:05",
		720:  "12:00",
		5999: "99:59",
		5940: "99:00",
	}
	for input, want := range cases {
		assert.Equal(t, want, Format(input), "Format(%d)", input)
	}
}

func TestFormatShape(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{2}:\d{2}$`)
	for seconds := 0; seconds <= 99*60; seconds += 7 {
		if !pattern.MatchString(Format(seconds)) {
			t.Fatalf("Format(%d) = %q, expected MM:SS", seconds, Format(seconds))
		}
	}
}

func TestFormatNegativeClampsToZero(t *testing.T) {
	assert.Equal(t, "00:00", Format(-30))
}

func TestProgressFraction(t *testing.T) {
	assert.Equal(t, 0.0, ProgressFraction(0, 720))
	assert.Equal(t, 1.0, ProgressFraction(720, 720))
	assert.Equal(t, 0.5, ProgressFraction(360, 720))
	assert.Equal(t, 0.0, ProgressFraction(10, 0))
	assert.Equal(t, 1.0, ProgressFraction(900, 720))
	assert.Equal(t, 0.0, ProgressFraction(-1, 720))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-30, 0, 5940))
	assert.Equal(t, 5940, Clamp(6000, 0, 5940))
	assert.Equal(t, 42, Clamp(42, 0, 5940))
}

func TestSeconds(t *testing.T) {
	assert.Equal(t, 720, Seconds(12*time.Minute))
	assert.Equal(t, 1, Seconds(1500*time.Millisecond))
}
