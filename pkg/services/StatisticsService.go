package services

import (
	"context"
	"log/slog"

	"github.com/adampresley/photogallery/pkg/models"
)

type StatisticsFetcher interface {
	FetchStats(ctx context.Context, imageID string) models.ImageStatistics
}

type StatisticsServiceConfig struct {
	PhotoSearcher PhotoSearcher
}

type StatisticsService struct {
	photoSearcher PhotoSearcher
}

func NewStatisticsService(config StatisticsServiceConfig) StatisticsService {
	return StatisticsService{
		photoSearcher: config.PhotoSearcher,
	}
}

/*
FetchStats never fails. When the API call does not succeed the error is
logged and the unavailable sentinel is returned.
*/
func (s StatisticsService) FetchStats(ctx context.Context, imageID string) models.ImageStatistics {
	stats, err := s.photoSearcher.GetStatistics(ctx, imageID)

	if err != nil {
		slog.Error("error fetching image statistics", "imageID", imageID, "error", err)
		return models.UnavailableStatistics(imageID)
	}

	return stats
}
