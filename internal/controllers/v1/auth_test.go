package v1_test

import (
	"net/http"

	v1 "github.com/sami157/dining-management/internal/controllers/v1"
	"github.com/sami157/dining-management/internal/models"
	"github.com/sami157/dining-management/test"
)

func (suite *TestSuiteStandard) TestCreateUser() {
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/users/create", v1.UserCreateEditable{
		Name:     "Rahim",
		Email:    "rahim@example.com",
		Password: "swordfish",
		Room:     "204",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.UserResponse
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Assert().Equal("rahim@example.com", response.User.Email)
	// The first account bootstraps the admin
	suite.Assert().Equal(models.RoleAdmin, response.User.Role)

	// Everyone after that is a regular member
	r = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/users/create", v1.UserCreateEditable{
		Name:     "Karim",
		Email:    "karim@example.com",
		Password: "swordfish",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal(models.RoleMember, response.User.Role)
}

func (suite *TestSuiteStandard) TestCreateUserDuplicateEmail() {
	suite.signUp(models.RoleMember)

	body := v1.UserCreateEditable{Name: "Rahim", Email: "rahim@example.com", Password: "swordfish"}
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/users/create", body)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	r = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/users/create", body)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Contains(r.Body.String(), models.ErrEmailNotUnique.Error())
}

func (suite *TestSuiteStandard) TestLogin() {
	user, _ := suite.signUp(models.RoleMember)

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/auth/login", v1.LoginEditable{
		Email:    user.Email,
		Password: "swordfish",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.LoginResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().NotEmpty(response.Token)
	suite.Assert().Equal(user.ID, response.User.ID)

	// The token works for authenticated endpoints
	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/finance/user-deposit?month=2024-05", "", test.BearerHeader(response.Token))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
}

// Wrong password and unknown email return the same error so that the
// response does not leak which emails exist.
func (suite *TestSuiteStandard) TestLoginInvalidCredentials() {
	user, _ := suite.signUp(models.RoleMember)

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/auth/login", v1.LoginEditable{
		Email:    user.Email,
		Password: "wrong",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
	wrongPassword := r.Body.String()

	r = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/auth/login", v1.LoginEditable{
		Email:    "nobody@example.com",
		Password: "wrong",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
	suite.Assert().Equal(wrongPassword, r.Body.String())
}

func (suite *TestSuiteStandard) TestLoginInvalidBody() {
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/auth/login", `{ "email": `)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}
