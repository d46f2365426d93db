package reflex_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestReflexSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Reflex Suite")
}
