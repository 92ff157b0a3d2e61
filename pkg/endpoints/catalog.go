package endpoints

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Hosts is the set of provider base URLs for one environment.
type Hosts struct {
	Auth     string `yaml:"auth"`
	Register string `yaml:"register"`
	API      string `yaml:"api"`
	Graph    string `yaml:"graph"`
}

// Paths holds the relative endpoint paths, shared across environments.
type Paths struct {
	Token   string `yaml:"token"`
	Revoke  string `yaml:"revoke"`
	UserAPI string `yaml:"user_api"`
}

// Catalog is the provider endpoint catalog, typically loaded from a YAML file
// shipped alongside the embedding application.
type Catalog struct {
	Environments map[string]Hosts `yaml:"environments"`
	Paths        Paths            `yaml:"paths"`
}

// Endpoints are the absolute URLs the gateway talks to.
type Endpoints struct {
	TokenURL   string
	RevokeURL  string
	UserAPIURL string
}

// defaultPaths match the provider's stable OAuth2 layout; a catalog only
// needs to override them when the provider deviates.
var defaultPaths = Paths{
	Token:   "/oauth2/token",
	Revoke:  "/oauth2/revoke",
	UserAPI: "/api/user",
}

// Parse decodes a YAML catalog.
func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, errors.Join(ErrInvalidCatalog, err)
	}
	if len(c.Environments) == 0 {
		return Catalog{}, fmt.Errorf("%w: no environments defined", ErrInvalidCatalog)
	}

	if c.Paths.Token == "" {
		c.Paths.Token = defaultPaths.Token
	}
	if c.Paths.Revoke == "" {
		c.Paths.Revoke = defaultPaths.Revoke
	}
	if c.Paths.UserAPI == "" {
		c.Paths.UserAPI = defaultPaths.UserAPI
	}

	return c, nil
}

// Load reads and parses a YAML catalog file.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, errors.Join(ErrInvalidCatalog, err)
	}
	return Parse(data)
}

// Resolve joins the environment's hosts with the endpoint paths.
func (c Catalog) Resolve(environment string) (Endpoints, error) {
	hosts, ok := c.Environments[environment]
	if !ok {
		return Endpoints{}, fmt.Errorf("%w: %q", ErrUnknownEnvironment, environment)
	}
	if hosts.Auth == "" {
		return Endpoints{}, fmt.Errorf("%w: environment %q has no auth host", ErrInvalidCatalog, environment)
	}
	if hosts.API == "" {
		return Endpoints{}, fmt.Errorf("%w: environment %q has no api host", ErrInvalidCatalog, environment)
	}

	return Endpoints{
		TokenURL:   join(hosts.Auth, c.Paths.Token),
		RevokeURL:  join(hosts.Auth, c.Paths.Revoke),
		UserAPIURL: join(hosts.API, c.Paths.UserAPI),
	}, nil
}

func join(host, path string) string {
	return strings.TrimRight(host, "/") + "/" + strings.TrimLeft(path, "/")
}
