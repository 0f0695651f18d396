package client

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/redmonkez12/cvbuilder/internal/resume"
	"github.com/redmonkez12/cvbuilder/internal/user"
)

// State is the client side view: who is signed in, the resume being worked
// on and the list of the user's resumes. Every change comes from an API
// response; when two responses race the later one wins.
type State struct {
	client *Client
	store  *SessionStore // nil keeps the session in memory only

	mu      sync.RWMutex
	user    *user.User
	current *resume.Resume
	resumes []resume.Resume
	lastErr string
}

func NewState(client *Client, store *SessionStore) *State {
	return &State{
		client:  client,
		store:   store,
		user:    client.Session().User,
		resumes: []resume.Resume{},
	}
}

func (s *State) User() *user.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *State) CurrentResume() *resume.Resume {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Resumes returns a copy of the cached list
func (s *State) Resumes() []resume.Resume {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]resume.Resume{}, s.resumes...)
}

// Err is the message of the last failed call, empty when it succeeded
func (s *State) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *State) ClearError() {
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()
}

func (s *State) SetCurrentResume(r *resume.Resume) {
	s.mu.Lock()
	s.current = r
	s.mu.Unlock()
}

// Restore checks a saved session against the server. A session the server
// no longer accepts is dropped.
func (s *State) Restore(ctx context.Context) error {
	if !s.client.Session().SignedIn() {
		return ErrNotSignedIn
	}

	u, err := s.client.Me(ctx)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			s.signOut()
		}
		return err
	}

	s.adopt(Session{Token: s.client.Session().Token, User: u})
	return nil
}

func (s *State) Register(ctx context.Context, name, email, password string) error {
	res, err := s.client.Register(ctx, name, email, password)
	if err != nil {
		return s.fail(err, "Registration failed")
	}
	return s.adopt(Session{Token: res.Token, User: res.User})
}

func (s *State) Login(ctx context.Context, email, password string) error {
	res, err := s.client.Login(ctx, email, password)
	if err != nil {
		return s.fail(err, "Login failed")
	}
	return s.adopt(Session{Token: res.Token, User: res.User})
}

// Logout asks the server to revoke the token, then forgets the session
// whatever the server said.
func (s *State) Logout(ctx context.Context) error {
	var serverErr error
	if s.client.Session().SignedIn() {
		serverErr = s.client.Logout(ctx)
	}
	if err := s.signOut(); err != nil {
		return err
	}
	if serverErr != nil && !IsStatus(serverErr, http.StatusUnauthorized) {
		return serverErr
	}
	return nil
}

func (s *State) DeleteAccount(ctx context.Context) error {
	if err := s.client.DeleteAccount(ctx); err != nil {
		return s.fail(err, "Failed to delete account")
	}
	return s.signOut()
}

func (s *State) FetchResumes(ctx context.Context) error {
	list, err := s.client.ListResumes(ctx)
	if err != nil {
		return s.fail(err, "Failed to fetch resumes")
	}

	s.mu.Lock()
	s.resumes = list
	s.lastErr = ""
	s.mu.Unlock()
	return nil
}

func (s *State) FetchResume(ctx context.Context, id string) (*resume.Resume, error) {
	r, err := s.client.GetResume(ctx, id)
	if err != nil {
		return nil, s.fail(err, "Failed to fetch resume")
	}

	s.mu.Lock()
	s.current = r
	s.lastErr = ""
	s.mu.Unlock()
	return r, nil
}

// CreateResume puts the new resume at the front of the list
func (s *State) CreateResume(ctx context.Context, content resume.Content) (*resume.Resume, error) {
	r, err := s.client.CreateResume(ctx, content)
	if err != nil {
		return nil, s.fail(err, "Failed to create resume")
	}

	s.mu.Lock()
	s.resumes = append([]resume.Resume{*r}, s.resumes...)
	s.lastErr = ""
	s.mu.Unlock()
	return r, nil
}

// UpdateResume swaps the stored copy into the list, and into the current
// resume when it is the same one.
func (s *State) UpdateResume(ctx context.Context, id string, content resume.Content) (*resume.Resume, error) {
	r, err := s.client.UpdateResume(ctx, id, content)
	if err != nil {
		return nil, s.fail(err, "Failed to update resume")
	}

	s.mu.Lock()
	for i := range s.resumes {
		if s.resumes[i].ID == r.ID {
			s.resumes[i] = *r
		}
	}
	if s.current != nil && s.current.ID == r.ID {
		s.current = r
	}
	s.lastErr = ""
	s.mu.Unlock()
	return r, nil
}

func (s *State) DeleteResume(ctx context.Context, id string) error {
	if err := s.client.DeleteResume(ctx, id); err != nil {
		return s.fail(err, "Failed to delete resume")
	}

	deleted, _ := uuid.Parse(id)

	s.mu.Lock()
	kept := make([]resume.Resume, 0, len(s.resumes))
	for _, r := range s.resumes {
		if r.ID != deleted {
			kept = append(kept, r)
		}
	}
	s.resumes = kept
	s.lastErr = ""
	s.mu.Unlock()
	return nil
}

func (s *State) adopt(sess Session) error {
	s.client.SetSession(sess)

	s.mu.Lock()
	s.user = sess.User
	s.lastErr = ""
	s.mu.Unlock()

	if s.store != nil {
		return s.store.Save(sess)
	}
	return nil
}

func (s *State) signOut() error {
	s.client.SetSession(Session{})

	s.mu.Lock()
	s.user = nil
	s.current = nil
	s.resumes = []resume.Resume{}
	s.lastErr = ""
	s.mu.Unlock()

	if s.store != nil {
		return s.store.Clear()
	}
	return nil
}

// fail records the message the user should see and passes err through
func (s *State) fail(err error, fallback string) error {
	msg := fallback
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}

	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
	return err
}
