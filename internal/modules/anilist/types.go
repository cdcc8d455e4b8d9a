package anilist

// Media is an anime or manga entry.
type Media struct {
	ID           int    `json:"id"`
	Type         string `json:"type"`
	Description  string `json:"description"`
	SiteURL      string `json:"siteUrl"`
	Season       string `json:"season"`
	SeasonYear   int    `json:"seasonYear"`
	Episodes     int    `json:"episodes"`
	Chapters     int    `json:"chapters"`
	Volumes      int    `json:"volumes"`
	Status       string `json:"status"`
	AverageScore int    `json:"averageScore"`
	MeanScore    int    `json:"meanScore"`
	IsAdult      bool   `json:"isAdult"`

	Title struct {
		UserPreferred string `json:"userPreferred"`
		Native        string `json:"native"`
		English       string `json:"english"`
	} `json:"title"`

	CoverImage struct {
		Large string `json:"large"`
		Color string `json:"color"`
	} `json:"coverImage"`

	NextAiringEpisode *struct {
		TimeUntilAiring int `json:"timeUntilAiring"`
		Episode         int `json:"episode"`
	} `json:"nextAiringEpisode"`

	Trailer *struct {
		ID   string `json:"id"`
		Site string `json:"site"`
	} `json:"trailer"`

	Studios struct {
		Nodes []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"nodes"`
	} `json:"studios"`

	StartDate FuzzyDate `json:"startDate"`
	EndDate   FuzzyDate `json:"endDate"`
}

// FuzzyDate is a partial date; missing parts are zero.
type FuzzyDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// DisplayTitle prefers the English title.
func (m *Media) DisplayTitle() string {
	if m.Title.English != "" {
		return m.Title.English
	}
	return m.Title.UserPreferred
}

// User is an AniList profile.
type User struct {
	Name    string `json:"name"`
	SiteURL string `json:"siteUrl"`
	Avatar  struct {
		Large string `json:"large"`
	} `json:"avatar"`
	Statistics struct {
		Anime UserStatistics `json:"anime"`
		Manga UserStatistics `json:"manga"`
	} `json:"statistics"`
	DonatorTier  int    `json:"donatorTier"`
	DonatorBadge string `json:"donatorBadge"`
}

// UserStatistics summarizes a user's list.
type UserStatistics struct {
	Count          int     `json:"count"`
	MinutesWatched int     `json:"minutesWatched"`
	ChaptersRead   int     `json:"chaptersRead"`
	MeanScore      float64 `json:"meanScore"`
}
