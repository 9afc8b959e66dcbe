package v1

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	seyerrs "github.com/jdholdren/murmur/internal/errors"
)

func TestPublishRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		req       PublishRequest
		wantField string
		wantError string
	}{
		{name: "valid", req: PublishRequest{ItemID: "i1"}},
		{name: "longest allowed", req: PublishRequest{ItemID: strings.Repeat("x", MaxItemIDLen)}},
		{name: "missing", req: PublishRequest{}, wantField: "item_id", wantError: "required"},
		{name: "too long", req: PublishRequest{ItemID: strings.Repeat("x", MaxItemIDLen+1)}, wantField: "item_id", wantError: "too long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var seyerr *seyerrs.Error
			require.ErrorAs(t, err, &seyerr)
			assert.Equal(t, http.StatusBadRequest, seyerr.Status)
			assert.Equal(t, []seyerrs.Detail{{Field: tt.wantField, Error: tt.wantError}}, seyerr.Details)
		})
	}
}
