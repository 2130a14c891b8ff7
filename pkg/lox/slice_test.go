package lox_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"bargain/pkg/lox"
)

func TestMap(t *testing.T) {
	rq := require.New(t)

	rq.Equal([]string{"1", "2", "3"}, lox.Map([]int{1, 2, 3}, strconv.Itoa))
	rq.Empty(lox.Map([]int(nil), strconv.Itoa))
}

func TestMapErr(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name    string
		input   []string
		want    []int
		wantErr bool
	}{
		{name: "All valid", input: []string{"1", "22"}, want: []int{1, 22}},
		{name: "Stops at first error", input: []string{"1", "x", "3"}, wantErr: true},
		{name: "Empty", input: nil, want: []int{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			got, err := lox.MapErr(tc.input, strconv.Atoi)
			if tc.wantErr {
				var numErr *strconv.NumError
				rq.True(errors.As(err, &numErr))
				rq.Nil(got)

				return
			}

			rq.NoError(err)
			rq.Equal(tc.want, got)
		})
	}
}
