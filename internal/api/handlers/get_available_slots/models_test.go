package get_available_slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToUseCaseRequest_SinceNowDefaultsOn(t *testing.T) {
	req := &SlotsQueryRequest{FromDate: "2025-11-03"}

	ucReq, err := req.ToUseCaseRequest(1, 0)
	require.NoError(t, err)
	assert.True(t, ucReq.SinceNow, "lead time filter is on unless disabled explicitly")

	off := false
	req.SinceNow = &off

	ucReq, err = req.ToUseCaseRequest(1, 0)
	require.NoError(t, err)
	assert.False(t, ucReq.SinceNow)
}

func TestFromQueryParams_SinceNow(t *testing.T) {
	req, err := FromQueryParams(map[string][]string{
		"fromDate": {"2025-11-03"},
	})
	require.NoError(t, err)
	assert.Nil(t, req.SinceNow, "absent parameter keeps the default")

	req, err = FromQueryParams(map[string][]string{
		"fromDate": {"2025-11-03"},
		"sinceNow": {"false"},
	})
	require.NoError(t, err)
	require.NotNil(t, req.SinceNow)
	assert.False(t, *req.SinceNow)
}
