package tmpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		data    any
		want    string
		wantErr bool
	}{
		{
			name: "simple substitution",
			tmpl: "open {{ .URL }}",
			data: map[string]string{"URL": "https://catalog.example.edu"},
			want: "open https://catalog.example.edu",
		},
		{
			name: "multiple variables",
			tmpl: `notify-send "{{ .Title }}" "{{ .URL }}"`,
			data: map[string]string{
				"Title": "Place a Hold",
				"URL":   "https://catalog.example.edu/Record/123",
			},
			want: `notify-send "Place a Hold" "https://catalog.example.edu/Record/123"`,
		},
		{
			name: "struct data",
			tmpl: "{{ .Submodule }}/{{ .Action }}",
			data: struct {
				Submodule string
				Action    string
			}{Submodule: "Record", Action: "Hold"},
			want: "Record/Hold",
		},
		{
			name: "no variables",
			tmpl: "static string",
			data: nil,
			want: "static string",
		},
		{
			name:    "missing key errors",
			tmpl:    "{{ .Missing }}",
			data:    map[string]string{"URL": "x"},
			wantErr: true,
		},
		{
			name:    "invalid template syntax",
			tmpl:    "{{ .URL }",
			data:    map[string]string{"URL": "x"},
			wantErr: true,
		},
		{
			name: "empty value is valid",
			tmpl: "prefix{{ .Title }}suffix",
			data: map[string]string{"Title": ""},
			want: "prefixsuffix",
		},
		{
			name: "shq with spaces",
			tmpl: "echo {{ .Title | shq }}",
			data: map[string]string{"Title": "Renew All Items"},
			want: "echo 'Renew All Items'",
		},
		{
			name: "shq with single quotes",
			tmpl: "echo {{ .Title | shq }}",
			data: map[string]string{"Title": "Editor's Picks"},
			want: `echo 'Editor'\''s Picks'`,
		},
		{
			name: "shq with empty string",
			tmpl: "echo {{ .Title | shq }}",
			data: map[string]string{"Title": ""},
			want: "echo ''",
		},
		{
			name: "shq neutralizes shell metacharacters",
			tmpl: "echo {{ .URL | shq }}",
			data: map[string]string{"URL": "$(whoami)&id=1"},
			want: "echo '$(whoami)&id=1'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.tmpl, tt.data)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
