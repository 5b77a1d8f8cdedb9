package services

import (
	stdContext "context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/ColdByDefault/Portfolio-sub001/shared"
)

// GeoInfo is the subset of the ip-api.com response the audit trail and
// notification emails care about.
type GeoInfo struct {
	IP      string `json:"ip"`
	Country string `json:"country"`
	Region  string `json:"region"`
	City    string `json:"city"`
}

// Location renders "City, Region, Country", skipping empty parts.
func (g *GeoInfo) Location() string {
	location := ""
	for _, part := range []string{g.City, g.Region, g.Country} {
		if part == "" {
			continue
		}
		if location != "" {
			location += ", "
		}
		location += part
	}
	if location == "" {
		location = "Unknown"
	}
	return location
}

type GeolocationService struct {
	context.DefaultService

	httpClient  *http.Client
	apiURL      string
	redisSvc    *RedisService
	cacheExpiry time.Duration
}

const GEOLOCATION_SVC = "geolocation_svc"

func (svc GeolocationService) Id() string {
	return GEOLOCATION_SVC
}

func (svc *GeolocationService) Configure(ctx *context.Context) error {
	svc.httpClient = &http.Client{
		Timeout: 10 * time.Second,
	}
	svc.apiURL = "http://ip-api.com/json"
	svc.cacheExpiry = 24 * time.Hour
	return svc.DefaultService.Configure(ctx)
}

func (svc *GeolocationService) Start() error {
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// LookupIP resolves an IP to a coarse location. Failures degrade to an
// empty GeoInfo rather than an error so callers never block on the lookup.
func (svc *GeolocationService) LookupIP(ip string) *GeoInfo {
	if ip == "" || ip == UnknownClient || ip == "127.0.0.1" || ip == "::1" {
		return &GeoInfo{IP: ip, Country: "Local", City: "Local"}
	}

	ctx := stdContext.Background()
	cacheKey := fmt.Sprintf("geolocation:%s", ip)

	// Try the cache first
	if cached, err := svc.redisSvc.Get(ctx, cacheKey); err == nil && cached != "" {
		var info GeoInfo
		if err := shared.JSONUnmarshal([]byte(cached), &info); err == nil {
			log.WithField("ip", ip).Debug("Geolocation cache hit")
			return &info
		}
	}

	info := svc.fetch(ip)

	if data, err := shared.JSONMarshal(info); err == nil {
		if err := svc.redisSvc.Set(ctx, cacheKey, string(data), svc.cacheExpiry); err != nil {
			log.WithError(err).WithField("ip", ip).Warn("Failed to cache geolocation result")
		}
	}

	return info
}

func (svc *GeolocationService) fetch(ip string) *GeoInfo {
	url := fmt.Sprintf("%s/%s?fields=status,country,regionName,city,query", svc.apiURL, ip)

	resp, err := svc.httpClient.Get(url)
	if err != nil {
		log.WithError(err).WithField("ip", ip).Error("Failed to get geolocation")
		return &GeoInfo{IP: ip}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.WithField("status", resp.StatusCode).WithField("ip", ip).Error("Geolocation API returned non-200 status")
		return &GeoInfo{IP: ip}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		log.WithError(err).WithField("ip", ip).Error("Failed to read geolocation response")
		return &GeoInfo{IP: ip}
	}

	var result struct {
		Status     string `json:"status"`
		Country    string `json:"country"`
		RegionName string `json:"regionName"`
		City       string `json:"city"`
		Query      string `json:"query"`
	}
	if err := shared.JSONUnmarshal(body, &result); err != nil {
		log.WithError(err).WithField("ip", ip).Error("Failed to decode geolocation response")
		return &GeoInfo{IP: ip}
	}

	if result.Status != "success" {
		log.WithField("status", result.Status).WithField("ip", ip).Warn("Geolocation lookup failed")
		return &GeoInfo{IP: ip}
	}

	return &GeoInfo{
		IP:      result.Query,
		Country: result.Country,
		Region:  result.RegionName,
		City:    result.City,
	}
}

func (svc *GeolocationService) ClearCache(ip string) error {
	return svc.redisSvc.Delete(stdContext.Background(), fmt.Sprintf("geolocation:%s", ip))
}
