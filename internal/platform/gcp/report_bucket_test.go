package gcp

import "testing"

func TestReportPublicURL(t *testing.T) {
	key := "reports/u1/c1/1.png"
	cases := []struct {
		name       string
		cfg        ReportStorageConfig
		publicBase string
		want       string
	}{
		{
			name: "default gcs",
			cfg:  ReportStorageConfig{Mode: ObjectStorageModeGCS, Bucket: "mt-reports"},
			want: "https://storage.googleapis.com/mt-reports/reports/u1/c1/1.png",
		},
		{
			name: "cdn",
			cfg:  ReportStorageConfig{Mode: ObjectStorageModeGCS, Bucket: "mt-reports", CDNDomain: "cdn.example.com"},
			want: "https://cdn.example.com/reports/u1/c1/1.png",
		},
		{
			name:       "public base",
			cfg:        ReportStorageConfig{Mode: ObjectStorageModeGCS, Bucket: "mt-reports"},
			publicBase: "http://localhost:4443",
			want:       "http://localhost:4443/mt-reports/reports/u1/c1/1.png",
		},
		{
			name:       "emulator",
			cfg:        ReportStorageConfig{Mode: ObjectStorageModeGCSEmulator, Bucket: "mt-reports"},
			publicBase: "http://localhost:4443",
			want:       "http://localhost:4443/storage/v1/b/mt-reports/o/reports%2Fu1%2Fc1%2F1.png?alt=media",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := reportPublicURL(tc.cfg, tc.publicBase, "/"+key); got != tc.want {
				t.Fatalf("url: want=%q got=%q", tc.want, got)
			}
		})
	}
}

func TestContentTypeForKey(t *testing.T) {
	if got := contentTypeForKey("a/b.PNG"); got != "image/png" {
		t.Fatalf("png: got %q", got)
	}
	if got := contentTypeForKey("a/b.bin"); got != "application/octet-stream" {
		t.Fatalf("default: got %q", got)
	}
}
