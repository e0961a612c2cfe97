package jwttoken_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namehaus/internal/jwttoken"
	"namehaus/pkg/domain"
	dErrors "namehaus/pkg/domain-errors"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := jwttoken.NewService("test-key", "namehaus", "namehaus-api")

	token, err := svc.Generate("0xAlice", time.Hour)
	require.NoError(t, err)

	identity, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity("0xalice"), identity)
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := jwttoken.NewService("test-key", "namehaus", "namehaus-api")

	token, err := svc.Generate("0xalice", -time.Minute)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Contains(t, err.Error(), "expired")
}

func TestValidateRejectsWrongKey(t *testing.T) {
	issuer := jwttoken.NewService("key-a", "namehaus", "namehaus-api")
	verifier := jwttoken.NewService("key-b", "namehaus", "namehaus-api")

	token, err := issuer.Generate("0xalice", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := jwttoken.NewService("test-key", "namehaus", "namehaus-api")
	_, err := svc.Validate("not-a-token")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
