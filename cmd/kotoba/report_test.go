package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportFormat_Set(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    ReportFormat
		wantErr string
	}{
		{
			name:  "markdown",
			value: "markdown",
			want:  ReportFormatMarkdown,
		},
		{
			name:  "pdf",
			value: "pdf",
			want:  ReportFormatPDF,
		},
		{
			name:    "unknown format",
			value:   "html",
			wantErr: "invalid report format: html",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var format ReportFormat
			err := format.Set(tt.value)
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, format)
			assert.Equal(t, tt.value, format.String())
		})
	}
}
