// Command grant-lister grants the lister role to an identity on a running
// registry. It signs an admin token with the shared signing key, so it must
// run with the same JWT_SIGNING_KEY as the server.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"time"

	"namehaus/internal/jwttoken"
	"namehaus/internal/platform/config"
	"namehaus/internal/platform/logger"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "base URL of the registry server")
	identity := flag.String("identity", "", "identity to grant the role to")
	role := flag.String("role", "lister", "role to grant (lister or admin)")
	flag.Parse()

	log := logger.New()
	if *identity == "" {
		log.Error("missing required flag -identity")
		os.Exit(1)
	}

	cfg := config.FromEnv()
	jwtSvc := jwttoken.NewService(cfg.JWTSigningKey, "namehaus", "namehaus")
	token, err := jwtSvc.Generate(cfg.Deployer, 15*time.Minute)
	if err != nil {
		log.Error("failed to generate admin token", "error", err)
		os.Exit(1)
	}

	body, err := json.Marshal(map[string]string{"identity": *identity, "role": *role})
	if err != nil {
		log.Error("failed to marshal request", "error", err)
		os.Exit(1)
	}
	req, err := http.NewRequest(http.MethodPost, *addr+"/v1/roles/grant", bytes.NewReader(body))
	if err != nil {
		log.Error("failed to build request", "error", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Error("request failed", "error", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		log.Error("grant failed", "status", resp.StatusCode)
		os.Exit(1)
	}
	log.Info("role granted", "identity", *identity, "role", *role)
}
