package testsupport

import "os"

// LoadFixture reads a raw fixture file from testdata.
func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}
