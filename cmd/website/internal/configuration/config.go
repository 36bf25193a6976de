package configuration

import "github.com/adampresley/configinator"

type Config struct {
	AwsEndpointUrl           string `flag:"awsep" env:"AWS_ENDPOINT_URL" default:"http://localhost:4566" description:"AWS endpoint URL"`
	AwsRegion                string `flag:"awsregion" env:"AWS_REGION" default:"us-central-1" description:"AWS region"`
	AwsAccessKeyId           string `flag:"awsaccesskeyid" env:"AWS_ACCESS_KEY_ID" default:"" description:"AWS access key ID"`
	AwsSecretAccessKey       string `flag:"awssecretaccesskey" env:"AWS_SECRET_ACCESS_KEY" default:"" description:"AWS secret access key"`
	AwsBucket                string `flag:"awsbucket" env:"AWS_BUCKET" default:"photogallery" description:"S3 bucket used when the storage backend is 's3'"`
	CacheFolder              string `flag:"cachefolder" env:"CACHE_FOLDER" default:"local-storage" description:"S3 folder holding cached queries and search history"`
	CacheWarmIntervalMinutes int    `flag:"cwi" env:"CACHE_WARM_INTERVAL_MINUTES" default:"60" description:"Minutes between refreshes of cached queries. 0 disables refreshing"`
	CacheWarmMaxPages        int    `flag:"cwmp" env:"CACHE_WARM_MAX_PAGES" default:"5" description:"Maximum number of pages refreshed per cached query"`
	CookieSecret             string `flag:"cookiesecret" env:"COOKIE_SECRET" default:"password" description:"Secret for encoding cookies"`
	DSN                      string `flag:"dsn" env:"DSN" default:"file:./data/photogallery.db" description:"Data source name"`
	Host                     string `flag:"host" env:"HOST" default:"localhost:8081" description:"The address and port to bind the HTTP server to"`
	LogLevel                 string `flag:"loglevel" env:"LOG_LEVEL" default:"debug" description:"The log level to use. Valid values are 'debug', 'info', 'warn', and 'error'"`
	MaxCacheWorkers          int    `flag:"mcc" env:"MAX_CACHE_WORKERS" default:"5" description:"Maximum number of concurrent cache refresh workers"`
	MaxVisitors              int    `flag:"maxvisitors" env:"MAX_VISITORS" default:"1000" description:"Maximum number of visitor galleries kept in memory"`
	PerPage                  int    `flag:"perpage" env:"PER_PAGE" default:"20" description:"Number of images fetched per page"`
	QueryCacheSize           int    `flag:"qcs" env:"QUERY_CACHE_SIZE" default:"100" description:"Maximum number of queries kept in the query cache"`
	SearchDebounceMs         int    `flag:"debounce" env:"SEARCH_DEBOUNCE_MS" default:"2000" description:"Milliseconds of typing inactivity before a search is submitted"`
	StorageBackend           string `flag:"storage" env:"STORAGE_BACKEND" default:"sqlite" description:"Where cached queries and search history live. Valid values are 'sqlite', 's3', and 'memory'"`
	UnsplashAccessKey        string `flag:"unsplashkey" env:"UNSPLASH_ACCESS_KEY" default:"" description:"Unsplash API access key"`
	UnsplashBaseURL          string `flag:"unsplashurl" env:"UNSPLASH_BASE_URL" default:"https://api.unsplash.com" description:"Unsplash API base URL"`
	UseCachedResults         bool   `flag:"usecache" env:"USE_CACHED_RESULTS" default:"true" description:"Show cached results instead of fetching page 1 when a query is cached"`
	VisitorTTLMinutes        int    `flag:"visitorttl" env:"VISITOR_TTL_MINUTES" default:"60" description:"Minutes of inactivity before a visitor's gallery state is dropped"`
}

func LoadConfig() Config {
	config := Config{}
	configinator.Behold(&config)
	return config
}
