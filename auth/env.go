package auth

import (
	"context"
	"os"
)

// serviceEnvVars maps service names to their environment variable
// configurations. Each entry maps env var name to cookie name.
var serviceEnvVars = map[string]map[string]string{
	ServiceLinkedin: {
		"LINKEDIN_LI_AT":      "li_at",
		"LINKEDIN_JSESSIONID": "JSESSIONID",
		"LINKEDIN_LIDC":       "lidc",
		"LINKEDIN_BCOOKIE":    "bcookie",
	},
	ServiceBackend: {
		"TALENTSYNC_SESSION": ".AspNet.ApplicationCookie",
	},
}

// EnvSource reads cookies from environment variables.
type EnvSource struct{}

// Cookies returns cookies for the given service from environment variables.
func (EnvSource) Cookies(_ context.Context, service string) (map[string]string, error) {
	envMap, ok := serviceEnvVars[service]
	if !ok {
		return nil, nil //nolint:nilnil // no cookies for unknown service is not an error
	}

	cookies := make(map[string]string)
	for envVar, cookieName := range envMap {
		if value := os.Getenv(envVar); value != "" {
			cookies[cookieName] = value
		}
	}

	if len(cookies) == 0 {
		return nil, nil //nolint:nilnil // no env vars set is not an error
	}
	return cookies, nil
}

// EnvVarsForService returns the environment variable names for a service.
// Useful for generating help messages.
func EnvVarsForService(service string) []string {
	envMap, ok := serviceEnvVars[service]
	if !ok {
		return nil
	}

	vars := make([]string, 0, len(envMap))
	for envVar := range envMap {
		vars = append(vars, envVar)
	}
	return vars
}
