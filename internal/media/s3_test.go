package media

import (
	"context"
	"testing"
)

func TestDefaultPublicURL(t *testing.T) {
	cases := []struct {
		name string
		cfg  S3Config
		want string
	}{
		{
			name: "custom endpoint",
			cfg:  S3Config{Bucket: "assets", Endpoint: "https://minio.internal:9000/"},
			want: "https://minio.internal:9000/assets",
		},
		{
			name: "regional virtual host",
			cfg:  S3Config{Bucket: "assets", Region: "eu-west-1"},
			want: "https://assets.s3.eu-west-1.amazonaws.com",
		},
		{
			name: "legacy global",
			cfg:  S3Config{Bucket: "assets"},
			want: "https://assets.s3.amazonaws.com",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := defaultPublicURL(tc.cfg); got != tc.want {
				t.Fatalf("defaultPublicURL = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestS3ObjectKeyFromURL(t *testing.T) {
	s := &S3Store{bucket: "assets", baseURL: "https://cdn.example.org"}

	key, err := s.objectKey("https://cdn.example.org/175000-hero.png")
	if err != nil || key != "175000-hero.png" {
		t.Fatalf("base url key = %q, %v", key, err)
	}

	// Path-style URLs carry the bucket segment.
	key, err = s.objectKey("https://s3.eu-west-1.amazonaws.com/assets/175000-hero.png")
	if err != nil || key != "175000-hero.png" {
		t.Fatalf("path-style key = %q, %v", key, err)
	}

	if _, err := s.objectKey("https://cdn.example.org"); err == nil {
		t.Fatalf("expected error for url without object key")
	}
}

func TestNewS3StoreRequiresBucket(t *testing.T) {
	if _, err := NewS3Store(context.Background(), S3Config{}); err != ErrBucketRequired {
		t.Fatalf("expected ErrBucketRequired, got %v", err)
	}
}
