package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"slotpoll/core/cache"
	"slotpoll/core/config"
	"slotpoll/core/constants"
	"slotpoll/core/errors"
	"slotpoll/core/logger"
	"slotpoll/modules/overlay/dto"
	"slotpoll/modules/overlay/entity"
	"slotpoll/modules/overlay/repository"
	pollservice "slotpoll/modules/poll/service"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleCalendarAPIBase = "https://www.googleapis.com/calendar/v3"
	googleEventsAPI       = googleCalendarAPIBase + "/calendars/primary/events"
	googleUserInfoAPI     = "https://www.googleapis.com/oauth2/v2/userinfo"

	providerGoogle = "google"
)

// OverlayService connects participant calendars and computes busy overlays
type OverlayService interface {
	GoogleAuthURL(ctx context.Context) (*dto.ConnectResponse, *errors.AppError)
	HandleGoogleCallback(ctx context.Context, code, state string) (*dto.ConnectionResponse, *errors.AppError)
	Overlay(ctx context.Context, pollID string, connectionID uuid.UUID) (*dto.OverlayResponse, *errors.AppError)
}

type overlayService struct {
	pollSvc pollservice.PollServiceInterface
	repo    repository.ConnectionRepositoryInterface
	cache   cache.Cache
	client  *http.Client
}

func NewOverlayService(pollSvc pollservice.PollServiceInterface, repo repository.ConnectionRepositoryInterface, stateCache cache.Cache) OverlayService {
	return &overlayService{
		pollSvc: pollSvc,
		repo:    repo,
		cache:   stateCache,
		client:  &http.Client{Timeout: constants.DefaultTimeout},
	}
}

func googleOAuthConfig() (*oauth2.Config, *errors.AppError) {
	cfg, ok := config.GetSafe()
	if !ok {
		return nil, errors.NewAppError(errors.ErrInternalServer, "config not initialized", nil)
	}
	if cfg.GoogleAPI.ClientID == "" || cfg.GoogleAPI.ClientSecret == "" || cfg.GoogleAPI.RedirectURI == "" {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Google OAuth configuration is missing", nil)
	}

	return &oauth2.Config{
		ClientID:     cfg.GoogleAPI.ClientID,
		ClientSecret: cfg.GoogleAPI.ClientSecret,
		RedirectURL:  cfg.GoogleAPI.RedirectURI,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/calendar.readonly",
		},
		Endpoint: google.Endpoint,
	}, nil
}

// GoogleAuthURL generates the Google consent URL with a one-time CSRF state
func (s *overlayService) GoogleAuthURL(ctx context.Context) (*dto.ConnectResponse, *errors.AppError) {
	oauthConfig, appErr := googleOAuthConfig()
	if appErr != nil {
		return nil, appErr
	}

	state := uuid.NewString()
	if err := s.cache.SetOAuthState(ctx, state, constants.OAuthStateTTL); err != nil {
		logger.Error("OverlayService:GoogleAuthURL:SetOAuthState", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to store state token", err)
	}

	authURL := oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	return &dto.ConnectResponse{AuthURL: authURL}, nil
}

// HandleGoogleCallback exchanges the authorization code and stores a new
// calendar connection
func (s *overlayService) HandleGoogleCallback(ctx context.Context, code, state string) (*dto.ConnectionResponse, *errors.AppError) {
	valid, err := s.cache.TakeOAuthState(ctx, state)
	if err != nil {
		logger.Error("OverlayService:HandleGoogleCallback:TakeOAuthState", "error", err, "state", state)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to validate state token", err)
	}
	if !valid {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid or expired state token; restart the connect flow", nil)
	}

	oauthConfig, appErr := googleOAuthConfig()
	if appErr != nil {
		return nil, appErr
	}

	token, err := oauthConfig.Exchange(ctx, code)
	if err != nil {
		logger.Error("OverlayService:HandleGoogleCallback:Exchange", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to exchange token", err)
	}

	email, appErr := s.fetchGoogleEmail(ctx, token.AccessToken)
	if appErr != nil {
		return nil, appErr
	}

	conn := &entity.CalendarConnection{
		Provider:       providerGoogle,
		AccessToken:    token.AccessToken,
		RefreshToken:   token.RefreshToken,
		TokenExpiresAt: token.Expiry,
		CalendarEmail:  email,
	}
	conn.ID = uuid.New()
	conn.CreatedAt = time.Now()
	conn.UpdatedAt = conn.CreatedAt

	if err := s.repo.SaveConnection(ctx, conn); err != nil {
		logger.Error("OverlayService:HandleGoogleCallback:SaveConnection", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to save calendar connection", err)
	}

	logger.Info("OverlayService:HandleGoogleCallback:Connected", "connection_id", conn.ID, "email", email)

	return &dto.ConnectionResponse{
		ConnectionID:  conn.ID.String(),
		Provider:      conn.Provider,
		CalendarEmail: conn.CalendarEmail,
	}, nil
}

// Overlay fetches the participant's busy intervals over the poll window and
// maps them onto the poll's slot grid
func (s *overlayService) Overlay(ctx context.Context, pollID string, connectionID uuid.UUID) (*dto.OverlayResponse, *errors.AppError) {
	event, appErr := s.pollSvc.GetEvent(ctx, pollID)
	if appErr != nil {
		return nil, appErr
	}

	conn, err := s.repo.GetConnection(ctx, connectionID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load calendar connection", err)
	}
	if conn == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "calendar connection not found", nil)
	}

	accessToken, appErr := s.ensureValidToken(ctx, conn)
	if appErr != nil {
		return nil, appErr
	}

	loc := s.pollSvc.Location()
	rows := pollservice.SlotsPerDay(event)

	// Query window: first slot start to last slot end.
	windowStart, _ := pollservice.SlotTimeRange(event, 0, 0, loc)
	_, windowEnd := pollservice.SlotTimeRange(event, event.Days()-1, rows-1, loc)

	intervals, appErr := s.fetchBusyIntervals(ctx, accessToken, windowStart, windowEnd, loc)
	if appErr != nil {
		return nil, appErr
	}

	busy := BusySlots(event, intervals, loc)
	if busy == nil {
		busy = []int{}
	}

	return &dto.OverlayResponse{
		PollID:       event.ID,
		ConnectionID: connectionID.String(),
		BusySlots:    busy,
	}, nil
}

// ensureValidToken refreshes the access token when it is about to expire and
// persists the rotated token
func (s *overlayService) ensureValidToken(ctx context.Context, conn *entity.CalendarConnection) (string, *errors.AppError) {
	if time.Now().Before(conn.TokenExpiresAt.Add(-5 * time.Minute)) {
		return conn.AccessToken, nil
	}

	logger.Info("OverlayService:ensureValidToken:Refreshing", "connection_id", conn.ID)

	oauthConfig, appErr := googleOAuthConfig()
	if appErr != nil {
		return "", appErr
	}

	source := oauthConfig.TokenSource(ctx, &oauth2.Token{
		AccessToken:  conn.AccessToken,
		RefreshToken: conn.RefreshToken,
		Expiry:       conn.TokenExpiresAt,
	})

	fresh, err := source.Token()
	if err != nil {
		logger.Error("OverlayService:ensureValidToken:Refresh", err)
		return "", errors.NewAppError(errors.ErrUnauthorized, "failed to refresh calendar token; reconnect the calendar", err)
	}

	conn.AccessToken = fresh.AccessToken
	conn.TokenExpiresAt = fresh.Expiry
	if fresh.RefreshToken != "" {
		conn.RefreshToken = fresh.RefreshToken
	}
	conn.UpdatedAt = time.Now()

	if err := s.repo.UpdateConnection(ctx, conn); err != nil {
		// The refreshed token still works for this request.
		logger.Error("OverlayService:ensureValidToken:Update", "error", err)
	}

	return conn.AccessToken, nil
}

func (s *overlayService) fetchGoogleEmail(ctx context.Context, accessToken string) (string, *errors.AppError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoAPI, nil)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Error("OverlayService:fetchGoogleEmail:Do", err)
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to fetch user info", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		logger.Error("OverlayService:fetchGoogleEmail:APIError", "status", resp.StatusCode, "body", string(body))
		return "", errors.NewAppError(errors.ErrInternalServer, fmt.Sprintf("Google userinfo API error: %d", resp.StatusCode), nil)
	}

	var userInfo struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to parse user info", err)
	}
	return userInfo.Email, nil
}

// googleCalendarItem is the subset of the Calendar API event resource the
// overlay needs. All-day entries carry Date; timed entries carry DateTime.
type googleCalendarItem struct {
	Status       string `json:"status"`
	Transparency string `json:"transparency"`
	Start        struct {
		DateTime string `json:"dateTime"`
		Date     string `json:"date"`
	} `json:"start"`
	End struct {
		DateTime string `json:"dateTime"`
		Date     string `json:"date"`
	} `json:"end"`
}

// fetchBusyIntervals lists the primary calendar's events over the window and
// resolves each one to an absolute busy interval
func (s *overlayService) fetchBusyIntervals(ctx context.Context, accessToken string, timeMin, timeMax time.Time, loc *time.Location) ([]entity.BusyInterval, *errors.AppError) {
	params := url.Values{}
	params.Set("timeMin", timeMin.Format(time.RFC3339))
	params.Set("timeMax", timeMax.Format(time.RFC3339))
	params.Set("singleEvents", "true")
	params.Set("orderBy", "startTime")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleEventsAPI+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Error("OverlayService:fetchBusyIntervals:Do", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to fetch calendar events", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		logger.Error("OverlayService:fetchBusyIntervals:APIError", "status", resp.StatusCode, "body", string(body))
		return nil, errors.NewAppError(errors.ErrInternalServer, fmt.Sprintf("Google Calendar API error: %d", resp.StatusCode), nil)
	}

	var list struct {
		Items []googleCalendarItem `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to parse calendar events", err)
	}

	return normalizeCalendarItems(list.Items, loc), nil
}

// normalizeCalendarItems converts calendar entries into busy intervals.
// Cancelled entries and entries marked free (transparent) are skipped.
// All-day entries become 00:00-23:59:59 spans: the Calendar API's end.date is
// exclusive, so a one-day event ends 23:59:59 on its own date.
func normalizeCalendarItems(items []googleCalendarItem, loc *time.Location) []entity.BusyInterval {
	var intervals []entity.BusyInterval
	for _, item := range items {
		if item.Status == "cancelled" || item.Transparency == "transparent" {
			continue
		}

		if item.Start.DateTime != "" && item.End.DateTime != "" {
			start, errS := time.Parse(time.RFC3339, item.Start.DateTime)
			end, errE := time.Parse(time.RFC3339, item.End.DateTime)
			if errS != nil || errE != nil {
				continue
			}
			intervals = append(intervals, entity.BusyInterval{Start: start, End: end})
			continue
		}

		if item.Start.Date != "" && item.End.Date != "" {
			startDate, errS := time.ParseInLocation(constants.DateLayout, item.Start.Date, loc)
			endDate, errE := time.ParseInLocation(constants.DateLayout, item.End.Date, loc)
			if errS != nil || errE != nil {
				continue
			}
			lastDay := endDate.AddDate(0, 0, -1)
			if lastDay.Before(startDate) {
				lastDay = startDate
			}
			intervals = append(intervals, entity.BusyInterval{
				Start: startDate,
				End:   time.Date(lastDay.Year(), lastDay.Month(), lastDay.Day(), 23, 59, 59, 0, loc),
			})
		}
	}
	return intervals
}
