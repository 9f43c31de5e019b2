package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindConfig(t *testing.T) {
	// /tmp/
	//   project/ (.docview.toml)
	//     subdir/
	//       nested/
	//   empty/ (.docview.json is a directory)

	baseDir := t.TempDir()
	projectDir := filepath.Join(baseDir, "project")
	subDir := filepath.Join(projectDir, "subdir")
	nestedDir := filepath.Join(subDir, "nested")
	emptyDir := filepath.Join(baseDir, "empty")

	if err := os.MkdirAll(nestedDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(emptyDir, ".docview.json"), 0755); err != nil {
		t.Fatal(err)
	}

	marker := filepath.Join(projectDir, ".docview.toml")
	if err := os.WriteFile(marker, []byte("verbose = true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		startPath string
		want      string
		wantErr   bool
	}{
		{
			name:      "Start at Project",
			startPath: projectDir,
			want:      marker,
		},
		{
			name:      "Start in Subdir",
			startPath: subDir,
			want:      marker,
		},
		{
			name:      "Start Nested Deeply",
			startPath: nestedDir,
			want:      marker,
		},
		{
			name:      "No Config Found",
			startPath: emptyDir,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindConfig(tt.startPath)
			if (err != nil) != tt.wantErr {
				t.Errorf("FindConfig() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != "" && filepath.Clean(got) != filepath.Clean(tt.want) {
				t.Errorf("FindConfig() = %v, want %v", got, tt.want)
			}
		})
	}
}
