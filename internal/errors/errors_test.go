package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

// ErrorsTestSuite 错误包测试套件
type ErrorsTestSuite struct {
	suite.Suite
}

func (suite *ErrorsTestSuite) TestNew() {
	err := New(ErrValidation)
	suite.Equal(ErrValidation, err.Code)
	suite.Equal("validation failed", err.Message)
	suite.Empty(err.Details)

	err = New(ErrNotFound, "word", "id=42")
	suite.Equal("word; id=42", err.Details)

	err = New(ErrorCode(9999))
	suite.Equal("unknown error", err.Message)
}

func (suite *ErrorsTestSuite) TestNewf() {
	err := Newf(ErrWordLength, "length %d not in [%d,%d]", 2, 3, 20)
	suite.Equal("length 2 not in [3,20]", err.Details)
}

func (suite *ErrorsTestSuite) TestWrap() {
	original := errors.New("connection refused")
	wrapped := Wrap(original, ErrDatabaseQuery)
	suite.Equal(ErrDatabaseQuery, wrapped.Code)
	suite.Equal("connection refused", wrapped.Details)
	suite.Equal(original, wrapped.Unwrap())

	suite.Nil(Wrap(nil, ErrUnknown))

	// an existing AppError keeps its code
	appErr := New(ErrGameNotFound, "abc")
	rewrapped := Wrap(appErr, ErrDependency, "loading game")
	suite.Equal(ErrGameNotFound, rewrapped.Code)
	suite.Contains(rewrapped.Details, "loading game")
}

func (suite *ErrorsTestSuite) TestIsAndGetCodeThroughFmtWrap() {
	err := fmt.Errorf("service: %w", New(ErrActiveGame))
	suite.True(Is(err, ErrActiveGame))
	suite.False(Is(err, ErrConflict))
	suite.Equal(ErrActiveGame, GetCode(err))

	suite.Equal(ErrUnknown, GetCode(errors.New("plain")))
	suite.Equal(ErrorCode(0), GetCode(nil))
	suite.False(Is(nil, ErrActiveGame))
}

func (suite *ErrorsTestSuite) TestKind() {
	cases := map[ErrorCode]Kind{
		ErrValidation:      KindValidation,
		ErrWordLength:      KindValidation,
		ErrInvalidState:    KindInvalidState,
		ErrHintExhausted:   KindInvalidState,
		ErrActiveGame:      KindConflict,
		ErrConflict:        KindConflict,
		ErrGameNotFound:    KindNotFound,
		ErrWordsExhausted:  KindDependency,
		ErrDatabaseWrite:   KindDependency,
		ErrUnauthenticated: KindUnauthenticated,
		ErrTokenExpired:    KindUnauthenticated,
		ErrUnknown:         KindInternal,
	}
	for code, kind := range cases {
		suite.Equal(kind, New(code).Kind(), "code %d", code)
	}

	suite.Equal(KindInternal, KindOf(errors.New("plain")))
	suite.Equal(Kind(""), KindOf(nil))
}

func (suite *ErrorsTestSuite) TestHTTPStatus() {
	suite.Equal(http.StatusBadRequest, New(ErrValidation).HTTPStatus())
	suite.Equal(http.StatusUnprocessableEntity, New(ErrInvalidState).HTTPStatus())
	suite.Equal(http.StatusConflict, New(ErrActiveGame).HTTPStatus())
	suite.Equal(http.StatusNotFound, New(ErrGameNotFound).HTTPStatus())
	suite.Equal(http.StatusUnauthorized, New(ErrTokenInvalid).HTTPStatus())
	suite.Equal(http.StatusServiceUnavailable, New(ErrWordsExhausted).HTTPStatus())
	suite.Equal(http.StatusInternalServerError, New(ErrUnknown).HTTPStatus())
}

func (suite *ErrorsTestSuite) TestWithMeta() {
	err := New(ErrActiveGame).WithMeta("gameId", "g-1")
	suite.Equal("g-1", err.Meta["gameId"])
}

func (suite *ErrorsTestSuite) TestError() {
	err := &AppError{Code: ErrNotFound, Message: "resource not found"}
	suite.Equal("[1002] resource not found", err.Error())

	err.Details = "user 7"
	suite.Equal("[1002] resource not found: user 7", err.Error())
}

func TestErrorsTestSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}
