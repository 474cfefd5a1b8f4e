package http

import (
	"errors"
	"net/http"
	"testing"

	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriceToCents(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr error
	}{
		{in: "599.99", want: 59999},
		{in: "600", want: 60000},
		{in: "0", want: 0},
		{in: "0.01", want: 1},
		{in: "1000000000", want: 100000000000},
		{in: "", wantErr: e.ErrInvalidPrice},
		{in: "abc", wantErr: e.ErrInvalidPrice},
		{in: "-1", wantErr: e.ErrInvalidPrice},
		{in: "1000000001", wantErr: e.ErrInvalidPrice},
		{in: "5.999", wantErr: e.ErrPricePrecision},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parsePriceToCents(tc.in)
			if tc.wantErr != nil {
				assert.True(t, errors.Is(err, tc.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "599.99", formatCents(59999))
	assert.Equal(t, "600.00", formatCents(60000))
	assert.Equal(t, "0.00", formatCents(0))
	assert.Equal(t, "0.01", formatCents(1))
}

func TestToHTTPResponse(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{e.ErrInvalidPrice, http.StatusBadRequest},
		{e.ErrUnauthorized, http.StatusUnauthorized},
		{e.ErrUserNotFound, http.StatusNotFound},
		{e.ErrProductNotFound, http.StatusNotFound},
		{e.ErrOrderNotFound, http.StatusNotFound},
		{e.ErrEmailTaken, http.StatusConflict},
		{e.ErrProductReferenced, http.StatusConflict},
		{e.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType},
		{errors.New("anything else"), http.StatusInternalServerError},
		// Обёртки не должны ломать сопоставление
		{e.Wrap("UserUseCase.Login", e.ErrUnauthorized), http.StatusUnauthorized},
	}

	for _, tc := range cases {
		code, _ := ToHTTPResponse(tc.err)
		assert.Equal(t, tc.code, code, "error: %v", tc.err)
	}
}
