package server

import (
	"fmt"
	"strings"

	"resumepanel/internal/types"
)

// displayServerInfo shows server configuration information
func (s *Server) displayServerInfo() {
	s.displayEndpoints()
	s.displayAuthInfo()
	s.displayRequestLimitInfo()
	s.displayRateLimitInfo()
}

func (s *Server) displayEndpoints() {
	dims := make([]string, 0, len(types.AllDimensions))
	for _, d := range types.AllDimensions {
		dims = append(dims, string(d))
	}

	fmt.Println("Available endpoints:")
	fmt.Println("  GET  /health                - Health check with model availability")
	fmt.Println("  GET  /stats                 - Breaker and rate limiter statistics")
	fmt.Println("  GET  /profiles              - Weight profiles (requires API key)")
	fmt.Println("  POST /analyze               - Seven-dimension analysis (requires API key)")
	fmt.Println("  POST /analyze/{dimension}   - Single-dimension analysis (requires API key)")
	fmt.Println("  POST /route                 - Classify a message and run the matching expert (requires API key)")
	fmt.Printf("Dimensions: %s\n", strings.Join(dims, ", "))
	fmt.Println("Append ?format=markdown or ?format=text for a rendered report")
}

func (s *Server) displayAuthInfo() {
	if n := s.apiKeyCount(); n > 0 {
		fmt.Printf("API authentication: ENABLED (%d keys configured)\n", n)
		fmt.Println("Include 'X-API-Key: <your-key>' or 'Authorization: Bearer <your-key>' in requests")
	} else {
		fmt.Println("API authentication: DISABLED (no API keys configured)")
		fmt.Println("WARNING: API endpoints are publicly accessible!")
	}
	if s.keyWatcher != nil {
		fmt.Println("  - API keys refreshed from Vault")
	}
}

func (s *Server) displayRequestLimitInfo() {
	if s.MaxRequestSize > 0 {
		fmt.Printf("Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Println("Request size limit: DISABLED")
		fmt.Println("WARNING: No request size limits configured!")
	}
}

func (s *Server) displayRateLimitInfo() {
	if s.RateLimit != nil && s.RateLimit.Enabled {
		fmt.Printf("Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
		if s.RateLimit.ByAPIKey {
			fmt.Println("  - Per API key rate limiting enabled")
		}
		if s.RateLimit.ByIP {
			fmt.Println("  - Per IP address rate limiting enabled")
		}
	} else {
		fmt.Println("Rate limiting: DISABLED")
		fmt.Println("WARNING: No rate limiting configured!")
	}
}
