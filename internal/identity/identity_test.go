package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	domainerrors "github.com/YoungStar1994/VibeVote-Live/pkg/domain-errors"
)

type ResolverSuite struct {
	suite.Suite
	resolver *CompositeResolver
}

func (s *ResolverSuite) SetupTest() {
	s.resolver = NewResolver()
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

const chromeOnMac = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.6099.109 Safari/537.36"

func (s *ResolverSuite) TestResolve() {
	s.Run("same inputs yield deterministic key", func() {
		k1, err := s.resolver.Resolve("user-1", "fp-abc", "10.0.0.7", chromeOnMac)
		s.Require().NoError(err)
		k2, err := s.resolver.Resolve("user-1", "fp-abc", "10.0.0.7", chromeOnMac)
		s.Require().NoError(err)

		s.Equal(k1, k2)
		s.Len(string(k1), 64) // SHA-256 hex
	})

	s.Run("missing fingerprint is rejected", func() {
		_, err := s.resolver.Resolve("user-1", "", "10.0.0.7", chromeOnMac)
		s.Require().Error(err)
		s.True(domainerrors.Is(err, domainerrors.CodeInvalidRequest))
	})

	s.Run("user token does not affect the composite", func() {
		k1, err := s.resolver.Resolve("user-1", "fp-abc", "10.0.0.7", chromeOnMac)
		s.Require().NoError(err)
		k2, err := s.resolver.Resolve("", "fp-abc", "10.0.0.7", chromeOnMac)
		s.Require().NoError(err)

		s.Equal(k1, k2)
	})

	s.Run("different fingerprints yield different keys", func() {
		k1, err := s.resolver.Resolve("", "fp-abc", "10.0.0.7", chromeOnMac)
		s.Require().NoError(err)
		k2, err := s.resolver.Resolve("", "fp-xyz", "10.0.0.7", chromeOnMac)
		s.Require().NoError(err)

		s.NotEqual(k1, k2)
	})

	s.Run("different origin addresses yield different keys", func() {
		k1, err := s.resolver.Resolve("", "fp-abc", "10.0.0.7", chromeOnMac)
		s.Require().NoError(err)
		k2, err := s.resolver.Resolve("", "fp-abc", "10.0.0.8", chromeOnMac)
		s.Require().NoError(err)

		s.NotEqual(k1, k2)
	})
}

func (s *ResolverSuite) TestAgentNormalization() {
	s.Run("minor version changes do not fork identity", func() {
		ua1 := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.6099.109 Safari/537.36"
		ua2 := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.6099.224 Safari/537.36"

		k1, err := s.resolver.Resolve("", "fp-abc", "10.0.0.7", ua1)
		s.Require().NoError(err)
		k2, err := s.resolver.Resolve("", "fp-abc", "10.0.0.7", ua2)
		s.Require().NoError(err)

		s.Equal(k1, k2)
	})

	s.Run("major version changes fork identity", func() {
		ua1 := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
		ua2 := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"

		k1, err := s.resolver.Resolve("", "fp-abc", "10.0.0.7", ua1)
		s.Require().NoError(err)
		k2, err := s.resolver.Resolve("", "fp-abc", "10.0.0.7", ua2)
		s.Require().NoError(err)

		s.NotEqual(k1, k2)
	})

	s.Run("empty agent normalizes to unknown", func() {
		s.Equal("unknown", NormalizeAgent(""))
	})

	s.Run("normalized form names browser and OS", func() {
		norm := NormalizeAgent(chromeOnMac)
		s.Contains(norm, "Chrome")
		s.Contains(norm, "120")
		s.Equal(norm, strings.TrimSpace(norm))
	})

	s.Run("unrecognized agent still yields a stable non-empty form", func() {
		n1 := NormalizeAgent("Unknown/1.0")
		n2 := NormalizeAgent("Unknown/1.0")
		s.NotEmpty(n1)
		s.Equal(n1, n2)
	})
}
