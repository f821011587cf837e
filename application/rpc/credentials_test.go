package rpc

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredentials(t *testing.T) {
	creds := NewCredentials("bitcoin", "bitcoin")

	assert.Equal(t, Credentials("bitcoin:bitcoin"), creds)
	assert.Equal(t, "bitcoin", creds.User())
	assert.Equal(t, "Basic Yml0Y29pbjpiaXRjb2lu", creds.authorization())
}

func TestCredentialsHidePassword(t *testing.T) {
	creds := NewCredentials("alice", "s3cr3t")

	assert.Equal(t, "alice:***", creds.String())
	assert.NotContains(t, fmt.Sprintf("%v", creds), "s3cr3t")
}

func TestCredentialsPasswordWithColon(t *testing.T) {
	creds := NewCredentials("alice", "a:b")

	assert.Equal(t, "alice", creds.User())
	assert.Equal(t, "Basic YWxpY2U6YTpi", creds.authorization())
}
