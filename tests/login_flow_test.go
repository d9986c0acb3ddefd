// Package tests contains integration tests for login flow
package tests

import (
	"testing"
	"time"

	"github.com/pitline/pitline/app/dto"
	"github.com/pitline/pitline/app/services"
	businessflow "github.com/pitline/pitline/business_flow"
	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/repository"
	testingutil "github.com/pitline/pitline/testing"
	"github.com/pitline/pitline/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		userRepo := repository.NewUserRepository(testDB.DB)
		workshopRepo := repository.NewWorkshopRepository(testDB.DB)
		auditRepo := repository.NewAuditLogRepository(testDB.DB)

		tokenService, err := services.NewTokenService(
			1*time.Hour, 24*time.Hour, "test-issuer", "test-audience",
			false, "", "", "test-secret-key-at-least-32-chars-long", nil,
		)
		require.NoError(t, err)

		loginFlow := businessflow.NewLoginFlow(
			userRepo,
			workshopRepo,
			auditRepo,
			tokenService,
			3600,
			testDB.DB,
		)

		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		t.Run("SuccessfulLogin", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			user, err := fixtures.CreateTestUser(workshop.ID, "advisor")
			require.NoError(t, err)

			resp, err := loginFlow.Login(testingutil.CreateTestContext(), &dto.LoginRequest{
				Email:    user.Email,
				Password: "TestPass123!",
			}, metadata)

			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.NotEmpty(t, resp.AccessToken)
			assert.NotEmpty(t, resp.RefreshToken)
			assert.Equal(t, "Bearer", resp.TokenType)
			assert.Equal(t, 3600, resp.ExpiresIn)
			assert.Equal(t, user.ID, resp.User.ID)
			assert.Equal(t, workshop.ID, resp.User.WorkshopID)
			assert.Equal(t, user.Email, resp.User.Email)

			// A successful login stamps the last login time
			reloaded, err := userRepo.ByID(testingutil.CreateTestContext(), user.ID)
			require.NoError(t, err)
			require.NotNil(t, reloaded)
			assert.NotNil(t, reloaded.LastLoginAt)
		})

		t.Run("UserNotFound", func(t *testing.T) {
			resp, err := loginFlow.Login(testingutil.CreateTestContext(), &dto.LoginRequest{
				Email:    "nobody@example.com",
				Password: "TestPass123!",
			}, metadata)

			require.Error(t, err)
			assert.Nil(t, resp)
			assert.True(t, businessflow.IsUserNotFound(err))
		})

		t.Run("WrongPassword", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			user, err := fixtures.CreateTestUser(workshop.ID, "advisor")
			require.NoError(t, err)

			resp, err := loginFlow.Login(testingutil.CreateTestContext(), &dto.LoginRequest{
				Email:    user.Email,
				Password: "WrongPass123!",
			}, metadata)

			require.Error(t, err)
			assert.Nil(t, resp)
			assert.True(t, businessflow.IsIncorrectPassword(err))
		})

		t.Run("InactiveUser", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			user, err := fixtures.CreateTestUser(workshop.ID, "advisor")
			require.NoError(t, err)

			err = testDB.DB.Model(&models.User{}).
				Where("id = ?", user.ID).
				Update("is_active", false).Error
			require.NoError(t, err)

			resp, err := loginFlow.Login(testingutil.CreateTestContext(), &dto.LoginRequest{
				Email:    user.Email,
				Password: "TestPass123!",
			}, metadata)

			require.Error(t, err)
			assert.Nil(t, resp)
			assert.True(t, businessflow.IsAccountInactive(err))
		})

		t.Run("InactiveWorkshop", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			user, err := fixtures.CreateTestUser(workshop.ID, "advisor")
			require.NoError(t, err)

			err = testDB.DB.Model(&models.Workshop{}).
				Where("id = ?", workshop.ID).
				Update("is_active", false).Error
			require.NoError(t, err)

			resp, err := loginFlow.Login(testingutil.CreateTestContext(), &dto.LoginRequest{
				Email:    user.Email,
				Password: "TestPass123!",
			}, metadata)

			require.Error(t, err)
			assert.Nil(t, resp)
			assert.True(t, businessflow.IsWorkshopInactive(err))
		})

		t.Run("RefreshToken", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			user, err := fixtures.CreateTestUser(workshop.ID, "manager")
			require.NoError(t, err)

			loginResp, err := loginFlow.Login(testingutil.CreateTestContext(), &dto.LoginRequest{
				Email:    user.Email,
				Password: "TestPass123!",
			}, metadata)
			require.NoError(t, err)

			refreshResp, err := loginFlow.RefreshToken(testingutil.CreateTestContext(), &dto.RefreshTokenRequest{
				RefreshToken: loginResp.RefreshToken,
			}, metadata)

			require.NoError(t, err)
			require.NotNil(t, refreshResp)
			assert.NotEmpty(t, refreshResp.AccessToken)
			assert.NotEmpty(t, refreshResp.RefreshToken)
		})

		t.Run("RefreshWithGarbageToken", func(t *testing.T) {
			resp, err := loginFlow.RefreshToken(testingutil.CreateTestContext(), &dto.RefreshTokenRequest{
				RefreshToken: "not-a-token",
			}, metadata)

			require.Error(t, err)
			assert.Nil(t, resp)
		})

		t.Run("FailedLoginIsAudited", func(t *testing.T) {
			workshop, err := fixtures.CreateTestWorkshop()
			require.NoError(t, err)
			user, err := fixtures.CreateTestUser(workshop.ID, "advisor")
			require.NoError(t, err)

			_, err = loginFlow.Login(testingutil.CreateTestContext(), &dto.LoginRequest{
				Email:    user.Email,
				Password: "WrongPass123!",
			}, metadata)
			require.Error(t, err)

			logs, err := auditRepo.ByFilter(testingutil.CreateTestContext(), models.AuditLogFilter{
				WorkshopID: &workshop.ID,
				Action:     utils.ToPtr(models.AuditActionLoginFailed),
			}, "", 0, 0)
			require.NoError(t, err)
			assert.NotEmpty(t, logs)
		})

		return nil
	})
	require.NoError(t, err)
}
