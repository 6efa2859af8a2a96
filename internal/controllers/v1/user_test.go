package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/sami157/dining-management/internal/controllers/v1"
	"github.com/sami157/dining-management/internal/models"
	"github.com/sami157/dining-management/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestGetUsers() {
	_, adminToken := suite.signUp(models.RoleAdmin)
	suite.signUp(models.RoleMember)

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/users", "", test.BearerHeader(adminToken))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.UserListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Len(response.Users, 2)

	// Password hashes never leave the backend
	suite.Assert().NotContains(r.Body.String(), "passwordHash")
	suite.Assert().NotContains(r.Body.String(), "PasswordHash")
}

func (suite *TestSuiteStandard) TestUpdateUserRole() {
	_, adminToken := suite.signUp(models.RoleAdmin)
	member, _ := suite.signUp(models.RoleMember)

	r := test.Request(suite.T(), http.MethodPut, fmt.Sprintf("http://example.com/v1/users/role/%s", member.ID), v1.RoleEditable{Role: models.RoleAdmin}, test.BearerHeader(adminToken))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.UserResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal(models.RoleAdmin, response.User.Role)

	// Unknown roles are rejected and nothing is persisted
	r = test.Request(suite.T(), http.MethodPut, fmt.Sprintf("http://example.com/v1/users/role/%s", member.ID), v1.RoleEditable{Role: "overlord"}, test.BearerHeader(adminToken))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var stored models.User
	suite.Require().Nil(models.DB.First(&stored, member.ID).Error)
	suite.Assert().Equal(models.RoleAdmin, stored.Role)
}

func (suite *TestSuiteStandard) TestUpdateUserAmounts() {
	_, adminToken := suite.signUp(models.RoleAdmin)
	member, _ := suite.signUp(models.RoleMember)

	r := test.Request(suite.T(), http.MethodPut, fmt.Sprintf("http://example.com/v1/users/fixedDeposit/%s", member.ID), v1.FixedDepositEditable{FixedDeposit: decimal.NewFromInt(1200)}, test.BearerHeader(adminToken))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.UserResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().True(decimal.NewFromInt(1200).Equal(response.User.FixedDeposit))

	r = test.Request(suite.T(), http.MethodPut, fmt.Sprintf("http://example.com/v1/users/mosqueFee/%s", member.ID), v1.MosqueFeeEditable{MosqueFee: decimal.NewFromInt(350)}, test.BearerHeader(adminToken))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().True(decimal.NewFromInt(350).Equal(response.User.MosqueFee))

	// Negative amounts are rejected and nothing is persisted
	r = test.Request(suite.T(), http.MethodPut, fmt.Sprintf("http://example.com/v1/users/mosqueFee/%s", member.ID), v1.MosqueFeeEditable{MosqueFee: decimal.NewFromInt(-5)}, test.BearerHeader(adminToken))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var stored models.User
	suite.Require().Nil(models.DB.First(&stored, member.ID).Error)
	suite.Assert().True(decimal.NewFromInt(350).Equal(stored.MosqueFee))
}

func (suite *TestSuiteStandard) TestUpdateUserNotFound() {
	_, adminToken := suite.signUp(models.RoleAdmin)

	r := test.Request(suite.T(), http.MethodPut, "http://example.com/v1/users/role/b3a8b4b4-0000-0000-0000-000000000000", v1.RoleEditable{Role: models.RoleAdmin}, test.BearerHeader(adminToken))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
