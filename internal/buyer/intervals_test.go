// internal/buyer/intervals_test.go
package buyer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/snapbuy/internal/buyer"
)

func TestNewIntervals(t *testing.T) {
	iv, err := buyer.NewIntervals(10, 1000)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, iv.Scan)
	assert.Equal(t, time.Second, iv.Confirm)

	for _, pair := range [][2]int{{5, 100}, {100, 9}, {1001, 100}, {100, 5000}, {-1, -1}} {
		_, err := buyer.NewIntervals(pair[0], pair[1])
		assert.ErrorIs(t, err, buyer.ErrInvalidInterval, "%v should be rejected", pair)
	}
}

func TestParseIntervals(t *testing.T) {
	iv, err := buyer.ParseIntervals("500", " 20 ")
	require.NoError(t, err)
	assert.Equal(t, buyer.Intervals{Scan: 500 * time.Millisecond, Confirm: 20 * time.Millisecond}, iv)

	for _, in := range [][2]string{{"", "100"}, {"abc", "100"}, {"100", "1.5"}, {"100", "0x10"}} {
		_, err := buyer.ParseIntervals(in[0], in[1])
		assert.ErrorIs(t, err, buyer.ErrInvalidInterval, "%q should be rejected", in)
	}
}

func TestIntervals_Validate(t *testing.T) {
	assert.NoError(t, buyer.DefaultIntervals().Validate())
	assert.Error(t, buyer.Intervals{Scan: 1500 * time.Microsecond, Confirm: 100 * time.Millisecond}.Validate())
	assert.Error(t, buyer.Intervals{}.Validate())
	assert.Equal(t, "scan 100ms, confirm 100ms", buyer.DefaultIntervals().String())
}
