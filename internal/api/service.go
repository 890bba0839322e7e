package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/plantd/plantd/common"
	"github.com/plantd/plantd/pkg/credman"
	"github.com/plantd/plantd/pkg/plantlib"
)

// List returns the tracked plants, optionally restricted to those awaiting
// water.
func (s *Api) List(needsWaterOnly bool) ([]*plantlib.Plant, error) {
	plants, err := s.eng.Snapshot()
	if err != nil {
		return nil, err
	}
	if !needsWaterOnly {
		return plants, nil
	}
	out := make([]*plantlib.Plant, 0, len(plants))
	for _, p := range plants {
		if p.NeedsWater {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Api) Get(id string) (*plantlib.Plant, error) {
	return s.eng.Get(id)
}

func (s *Api) Add(ctx context.Context, params *common.AddPlantParams) (*plantlib.Plant, error) {
	if params.Name == "" {
		return nil, errors.New("name is required")
	}
	return s.eng.AddPlant(ctx, &plantlib.Plant{
		UserId:           s.userId,
		Name:             params.Name,
		Species:          params.Species,
		ImageURL:         params.ImageURL,
		Notes:            params.Notes,
		WateringSchedule: params.WateringSchedule,
	})
}

func (s *Api) Remove(ctx context.Context, id string) error {
	return s.eng.RemovePlant(ctx, id)
}

func (s *Api) Water(ctx context.Context, id string) (*plantlib.Plant, error) {
	return s.eng.Water(ctx, id)
}

func (s *Api) Update(ctx context.Context, id string, fields map[string]any) (*plantlib.Plant, error) {
	return s.eng.UpdatePlant(ctx, id, fields)
}

func (s *Api) SetSchedule(ctx context.Context, id string, schedule []string) (*plantlib.Plant, error) {
	return s.eng.SetSchedule(ctx, id, schedule)
}

func (s *Api) Focus(id string) error {
	return s.eng.Focus(id)
}

func (s *Api) Status() (*common.StatusResponse, error) {
	st, err := s.eng.Status()
	if err != nil {
		return nil, err
	}
	return &common.StatusResponse{
		SessionActive: st.SessionActive,
		PollerArmed:   st.PollerArmed,
		Plants:        st.Plants,
		FocusedId:     st.FocusedId,
		LastCatchUp:   st.LastCatchUp,
		LastTick:      st.LastTick,
	}, nil
}

// Login authenticates against the remote store, persists the session and
// starts the engine session. The initial sync failing is not fatal: the
// engine keeps retrying and the poller stays off until it succeeds.
func (s *Api) Login(ctx context.Context, email, password string) (*common.LoginResponse, error) {
	sess, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("error: sign-in failed: %w", err)
	}
	s.auth.SetToken(sess.AccessToken)
	s.userId = sess.UserId
	s.email = email
	if err = s.sessions.Save(&credman.Session{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		UserId:       sess.UserId,
		Email:        email,
	}); err != nil {
		s.log.Printf("Error saving session: %v", err)
	}
	if err = s.eng.StartSession(ctx); err != nil {
		s.log.Printf("Login: initial sync failed, retrying: %v", err)
	}
	st, err := s.eng.Status()
	if err != nil {
		return nil, err
	}
	if s.notify != nil {
		s.notify.SessionChanged(true, sess.UserId)
	}
	return &common.LoginResponse{
		UserId: sess.UserId,
		Email:  email,
		Plants: st.Plants,
	}, nil
}

// Logout stops the engine session and discards the saved credentials.
func (s *Api) Logout(context.Context) error {
	if err := s.eng.StopSession(); err != nil {
		return err
	}
	s.auth.SetToken("")
	s.userId = ""
	s.email = ""
	if err := s.sessions.Delete(); err != nil {
		s.log.Printf("Error removing session: %v", err)
	}
	if s.notify != nil {
		s.notify.SessionChanged(false, "")
	}
	return nil
}
