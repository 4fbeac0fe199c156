package secrets

import (
	"context"
	"os"
)

// EnvClient treats the secret identifier as the name of an environment
// variable holding the payload. Intended for local development.
type EnvClient struct {
	lookupEnv func(string) (string, bool)
}

// NewEnvClient creates a client backed by lookupEnv; nil means os.LookupEnv.
func NewEnvClient(lookupEnv func(string) (string, bool)) *EnvClient {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	return &EnvClient{lookupEnv: lookupEnv}
}

func (c *EnvClient) GetSecret(_ context.Context, id string) (string, error) {
	v, ok := c.lookupEnv(id)
	if !ok {
		return "", &StoreError{Msg: "secret not found: " + id, NotFound: true}
	}
	return v, nil
}
