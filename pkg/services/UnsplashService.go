package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/adampresley/photogallery/pkg/models"
)

const DefaultPerPage = 20

type PhotoSearcher interface {
	FetchPage(ctx context.Context, query string, page int) (models.PhotoPage, error)
	GetStatistics(ctx context.Context, photoID string) (models.ImageStatistics, error)
	PopularPhotos(ctx context.Context, page int) (models.PhotoPage, error)
	SearchPhotos(ctx context.Context, query string, page int) (models.PhotoPage, error)
}

type UnsplashServiceConfig struct {
	AccessKey  string
	BaseURL    string
	HttpClient *http.Client
	PerPage    int
}

type UnsplashService struct {
	accessKey  string
	baseURL    string
	httpClient *http.Client
	perPage    int
}

type searchResponse struct {
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
	Results    []models.Image `json:"results"`
}

type statisticsResponse struct {
	ID    string `json:"id"`
	Views struct {
		Total int `json:"total"`
	} `json:"views"`
	Downloads struct {
		Total int `json:"total"`
	} `json:"downloads"`
}

func NewUnsplashService(config UnsplashServiceConfig) UnsplashService {
	if config.HttpClient == nil {
		config.HttpClient = newHttpClient()
	}

	if config.PerPage <= 0 {
		config.PerPage = DefaultPerPage
	}

	return UnsplashService{
		accessKey:  config.AccessKey,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: config.HttpClient,
		perPage:    config.PerPage,
	}
}

func newHttpClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = 7 * time.Second
	transport.ResponseHeaderTimeout = 15 * time.Second
	transport.MaxIdleConnsPerHost = 20
	transport.IdleConnTimeout = 5 * time.Minute

	return &http.Client{
		Transport: transport,
	}
}

/*
FetchPage returns one page for a query. An empty query selects the
popular photos feed.
*/
func (s UnsplashService) FetchPage(ctx context.Context, query string, page int) (models.PhotoPage, error) {
	if query == "" {
		return s.PopularPhotos(ctx, page)
	}

	return s.SearchPhotos(ctx, query, page)
}

/*
GET /search/photos
*/
func (s UnsplashService) SearchPhotos(ctx context.Context, query string, page int) (models.PhotoPage, error) {
	var (
		err      error
		response searchResponse
	)

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", fmt.Sprint(page))
	params.Set("per_page", fmt.Sprint(s.perPage))

	if err = s.get(ctx, "/search/photos", params, &response); err != nil {
		return models.PhotoPage{}, fmt.Errorf("error searching photos for '%s', page %d: %w", query, page, err)
	}

	return models.PhotoPage{
		Images:     response.Results,
		Total:      response.Total,
		TotalPages: response.TotalPages,
	}, nil
}

/*
GET /photos
*/
func (s UnsplashService) PopularPhotos(ctx context.Context, page int) (models.PhotoPage, error) {
	var (
		err    error
		images []models.Image
	)

	params := url.Values{}
	params.Set("order_by", "popularity")
	params.Set("page", fmt.Sprint(page))
	params.Set("per_page", fmt.Sprint(s.perPage))

	if err = s.get(ctx, "/photos", params, &images); err != nil {
		return models.PhotoPage{}, fmt.Errorf("error retrieving popular photos, page %d: %w", page, err)
	}

	return models.PhotoPage{
		Images: images,
	}, nil
}

/*
GET /photos/{id}/statistics
*/
func (s UnsplashService) GetStatistics(ctx context.Context, photoID string) (models.ImageStatistics, error) {
	var (
		err      error
		response statisticsResponse
	)

	endpoint := fmt.Sprintf("/photos/%s/statistics", url.PathEscape(photoID))

	if err = s.get(ctx, endpoint, url.Values{}, &response); err != nil {
		return models.UnavailableStatistics(photoID), fmt.Errorf("error retrieving statistics for photo '%s': %w", photoID, err)
	}

	return models.ImageStatistics{
		PhotoID:   photoID,
		Views:     response.Views.Total,
		Downloads: response.Downloads.Total,
		Available: true,
	}, nil
}

func (s UnsplashService) get(ctx context.Context, endpoint string, params url.Values, result any) error {
	var (
		err      error
		request  *http.Request
		response *http.Response
	)

	params.Set("client_id", s.accessKey)
	requestURL := s.baseURL + endpoint + "?" + params.Encode()

	if request, err = http.NewRequestWithContext(ctx, http.MethodGet, requestURL, http.NoBody); err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	request.Header.Set("Accept-Version", "v1")

	slog.Debug("calling photo API", "endpoint", endpoint)

	if response, err = s.httpClient.Do(request); err != nil {
		return err
	}

	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			slog.Error("failed to close response body", "error", err)
		}
	}(response.Body)

	if response.StatusCode != http.StatusOK {
		return &HttpError{StatusCode: response.StatusCode}
	}

	if err = json.NewDecoder(response.Body).Decode(result); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}

	return nil
}
