// Command seed lists the starter names against a running registry, the way a
// deploy script would. It signs an admin token with the shared signing key, so
// it must run with the same JWT_SIGNING_KEY as the server.
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
	"namehaus/internal/registry/seed"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "base URL of the registry server")
	flag.Parse()

	cfg := config.FromEnv()
	log := logger.New()

	jwtSvc := jwttoken.NewService(cfg.JWTSigningKey, "namehaus", "namehaus")
	token, err := jwtSvc.Generate(cfg.Deployer, 15*time.Minute)
	if err != nil {
		log.Error("failed to generate admin token", "error", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	for _, l := range seed.Listings {
		body, err := json.Marshal(map[string]any{"name": l.Name, "price": l.Price})
		if err != nil {
			log.Error("failed to marshal listing", "name", l.Name, "error", err)
			os.Exit(1)
		}
		req, err := http.NewRequest(http.MethodPost, *addr+"/v1/records", bytes.NewReader(body))
		if err != nil {
			log.Error("failed to build request", "error", err)
			os.Exit(1)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := client.Do(req)
		if err != nil {
			log.Error("request failed", "name", l.Name, "error", err)
			os.Exit(1)
		}
		resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusCreated:
			log.Info("listed starter name", "name", l.Name, "price", l.Price)
		case http.StatusConflict:
			log.Info("starter name already listed", "name", l.Name)
		default:
			log.Error("unexpected status listing starter name", "name", l.Name, "status", resp.StatusCode)
			os.Exit(1)
		}
	}
}
