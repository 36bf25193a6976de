package models

import "fmt"

const StatisticUnavailable = "N/A"

/*
ImageStatistics holds view and download counts for a single photo. When
Available is false the counts are meaningless and should be displayed
as unavailable.
*/
type ImageStatistics struct {
	PhotoID   string
	Views     int
	Downloads int
	Available bool
}

func UnavailableStatistics(photoID string) ImageStatistics {
	return ImageStatistics{
		PhotoID:   photoID,
		Available: false,
	}
}

func (s ImageStatistics) ViewsText() string {
	if !s.Available {
		return StatisticUnavailable
	}

	return fmt.Sprint(s.Views)
}

func (s ImageStatistics) DownloadsText() string {
	if !s.Available {
		return StatisticUnavailable
	}

	return fmt.Sprint(s.Downloads)
}
