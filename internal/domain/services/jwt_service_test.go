package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dormguard-http-service/internal/domain/models"
)

func TestLoginRoleResolution(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Admin{
		Username: "boss", Password: "Boss@123", FullName: "The Boss",
		Email: "boss@example.com", Role: models.AdminRoleAdmin,
	}).Error)
	require.NoError(t, db.Create(&models.Admin{
		Username: "desk", Password: "Desk@123", FullName: "Desk Clerk",
		Email: "desk@example.com", Role: models.AdminRoleHelpDesk,
	}).Error)
	room := createRoom(t, db, "E-501", 2)
	createTenant(t, db, "renter", room.ID)

	svc := NewJWTService(testConfig(), db)

	cases := []struct {
		username string
		password string
		role     models.Role
	}{
		{"boss", "Boss@123", models.RoleAdmin},
		{"desk", "Desk@123", models.RoleHelpDesk},
		{"renter", "Secret@123", models.RoleTenant},
	}
	for _, tc := range cases {
		result, err := svc.Login(tc.username, tc.password)
		require.NoError(t, err, tc.username)
		assert.Equal(t, tc.role, result.User.Role, tc.username)
		assert.NotEmpty(t, result.Token)

		// 令牌声明与登录结果一致
		claims, err := svc.ExtractClaims(result.Token)
		require.NoError(t, err)
		assert.Equal(t, tc.role, claims.Role)
		assert.Equal(t, tc.username, claims.Username)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Admin{
		Username: "boss", Password: "Boss@123", FullName: "The Boss",
		Email: "boss@example.com", Role: models.AdminRoleAdmin,
	}).Error)

	svc := NewJWTService(testConfig(), db)

	_, err := svc.Login("boss", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsUnknownStoredRole(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Admin{
		Username: "weird", Password: "Weird@123", FullName: "Weird Role",
		Email: "weird@example.com", Role: "SuperRoot",
	}).Error)

	svc := NewJWTService(testConfig(), db)
	_, err := svc.Login("weird", "Weird@123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	db := setupTestDB(t)
	svc := NewJWTService(testConfig(), db)

	token, err := svc.GenerateToken(1, "boss", models.RoleAdmin, "The Boss")
	require.NoError(t, err)

	_, err = svc.ExtractClaims(token + "x")
	assert.Error(t, err)

	otherCfg := testConfig()
	otherCfg.JWTSecretKey = "another-secret"
	other := NewJWTService(otherCfg, db)
	_, err = other.ExtractClaims(token)
	assert.Error(t, err)
}
