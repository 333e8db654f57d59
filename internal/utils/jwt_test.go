package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
)

// JWTTestSuite JWT工具测试套件
type JWTTestSuite struct {
	suite.Suite
	manager *JWTManager
}

func (suite *JWTTestSuite) SetupTest() {
	suite.manager = NewJWTManager("test-secret-key", "hangman-test", time.Hour, 7*24*time.Hour)
}

// 测试签发与验证
func (suite *JWTTestSuite) TestIssueAndValidate() {
	pair, err := suite.manager.IssuePair("user-1", "alice")
	suite.Require().NoError(err)
	suite.NotEmpty(pair.AccessToken)
	suite.NotEmpty(pair.RefreshToken)
	suite.True(pair.RefreshExpiresAt.After(pair.AccessExpiresAt))

	claims, err := suite.manager.Validate(pair.AccessToken, AccessToken)
	suite.Require().NoError(err)
	suite.Equal("user-1", claims.UserID())
	suite.Equal("alice", claims.Name)
	suite.Equal("hangman-test", claims.Issuer)

	claims, err = suite.manager.Validate(pair.RefreshToken, RefreshToken)
	suite.Require().NoError(err)
	suite.Equal("user-1", claims.UserID())
}

// 令牌类型不匹配
func (suite *JWTTestSuite) TestWrongType() {
	pair, err := suite.manager.IssuePair("user-1", "alice")
	suite.Require().NoError(err)

	_, err = suite.manager.Validate(pair.RefreshToken, AccessToken)
	suite.ErrorIs(err, ErrWrongType)

	_, err = suite.manager.Validate(pair.AccessToken, RefreshToken)
	suite.ErrorIs(err, ErrWrongType)
}

// 每次签发的刷新令牌都不同
func (suite *JWTTestSuite) TestRotationProducesDistinctTokens() {
	a, err := suite.manager.IssuePair("user-1", "alice")
	suite.Require().NoError(err)
	b, err := suite.manager.IssuePair("user-1", "alice")
	suite.Require().NoError(err)
	suite.NotEqual(a.RefreshToken, b.RefreshToken)
}

func (suite *JWTTestSuite) TestExpiredToken() {
	issuedAt := time.Now().Add(-2 * time.Hour)
	suite.manager.now = func() time.Time { return issuedAt }
	pair, err := suite.manager.IssuePair("user-1", "alice")
	suite.Require().NoError(err)

	suite.manager.now = time.Now
	_, err = suite.manager.Validate(pair.AccessToken, AccessToken)
	suite.ErrorIs(err, ErrExpiredToken)

	// refresh token lives longer
	_, err = suite.manager.Validate(pair.RefreshToken, RefreshToken)
	suite.NoError(err)
}

func (suite *JWTTestSuite) TestInvalidTokens() {
	_, err := suite.manager.Validate("not-a-token", AccessToken)
	suite.ErrorIs(err, ErrInvalidToken)

	other := NewJWTManager("other-secret", "hangman-test", time.Hour, time.Hour)
	pair, err := other.IssuePair("user-1", "alice")
	suite.Require().NoError(err)
	_, err = suite.manager.Validate(pair.AccessToken, AccessToken)
	suite.ErrorIs(err, ErrInvalidToken)

	foreign := NewJWTManager("test-secret-key", "someone-else", time.Hour, time.Hour)
	pair, err = foreign.IssuePair("user-1", "alice")
	suite.Require().NoError(err)
	_, err = suite.manager.Validate(pair.AccessToken, AccessToken)
	suite.ErrorIs(err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{TokenType: AccessToken})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	suite.Require().NoError(err)
	_, err = suite.manager.Validate(unsigned, AccessToken)
	suite.ErrorIs(err, ErrInvalidToken)
}

func (suite *JWTTestSuite) TestExpiry() {
	suite.Equal(time.Hour, suite.manager.Expiry(AccessToken))
	suite.Equal(7*24*time.Hour, suite.manager.Expiry(RefreshToken))
}

func TestJWTSuite(t *testing.T) {
	suite.Run(t, new(JWTTestSuite))
}
