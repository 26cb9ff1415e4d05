package grpc

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/gophid/internal/logging"
	"github.com/dmitrijs2005/gophid/internal/server/auth"
	"github.com/dmitrijs2005/gophid/internal/server/guard"
	"github.com/dmitrijs2005/gophid/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophid/internal/server/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/protobuf/types/known/structpb"
)

// helper to build server
func newTestServer(t *testing.T, address string) (*GRPCServer, *auth.TokenIssuer) {
	t.Helper()
	repo := accounts.NewInMemoryRepository()
	tokens := auth.NewTokenIssuer([]byte("secret"), time.Hour)
	identity, err := services.NewIdentityService(repo, auth.NewBcryptHasher(bcrypt.MinCost), tokens, logging.Nop())
	require.NoError(t, err)
	return NewGRPCServer(address, logging.Nop(), identity, guard.New(tokens, repo, logging.Nop())), tokens
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}
