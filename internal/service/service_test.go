package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/CampusConnections/campus-service/internal/apperr"
	"github.com/CampusConnections/campus-service/internal/dto"
	"github.com/CampusConnections/campus-service/internal/model"
	"github.com/CampusConnections/campus-service/internal/policy"
	"github.com/CampusConnections/campus-service/internal/rabbitmq"
	"github.com/CampusConnections/campus-service/internal/repository"
	"github.com/CampusConnections/campus-service/internal/repository/memory"
	"github.com/CampusConnections/campus-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu       sync.Mutex
	messages map[string][]interface{}
}

func (p *recordingPublisher) Publish(ctx context.Context, queue string, body interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.messages == nil {
		p.messages = make(map[string][]interface{})
	}
	p.messages[queue] = append(p.messages[queue], body)
	return nil
}

func (p *recordingPublisher) count(queue string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages[queue])
}

type failingPublisher struct{}

func (failingPublisher) Publish(ctx context.Context, queue string, body interface{}) error {
	return errors.New("broker unavailable")
}

type testEnv struct {
	ctx       context.Context
	svc       *Service
	repo      *repository.Repository
	publisher *recordingPublisher
}

func setupTestService(t *testing.T) *testEnv {
	t.Helper()

	publisher := &recordingPublisher{}
	repo := repository.New(memory.New(), memory.NewCache())

	return &testEnv{
		ctx:       context.Background(),
		svc:       New(zap.NewNop(), repo, publisher),
		repo:      repo,
		publisher: publisher,
	}
}

func (e *testEnv) createUser(t *testing.T, username string) uuid.UUID {
	t.Helper()

	user, err := e.repo.Store.User.Create(e.ctx, model.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@campus.edu",
	})
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user.ID
}

// requester resolves the identity the way the auth middleware does.
func (e *testEnv) requester(t *testing.T, id uuid.UUID) *model.Requester {
	t.Helper()

	cached, err := e.svc.UserCache.FindByID(e.ctx, id)
	if err != nil {
		t.Fatalf("resolve requester %s: %v", id, err)
	}
	return cached.Requester()
}

func (e *testEnv) createClub(t *testing.T, admin uuid.UUID) *model.Club {
	t.Helper()

	club, err := e.svc.Club.Create(e.ctx, e.requester(t, admin), dto.CreateClubRequest{Name: "Chess Club", University: "State"})
	if err != nil {
		t.Fatalf("create club: %v", err)
	}
	return club
}

func (e *testEnv) join(t *testing.T, user uuid.UUID, clubID uuid.UUID) {
	t.Helper()

	if err := e.svc.Club.Join(e.ctx, e.requester(t, user), clubID); err != nil {
		t.Fatalf("join club: %v", err)
	}
}

func (e *testEnv) createPost(t *testing.T, author uuid.UUID, clubID uuid.UUID, visibility model.Visibility) *model.Post {
	t.Helper()

	post, err := e.svc.Post.Create(e.ctx, e.requester(t, author), dto.CreatePostRequest{
		Title:      "Opening night",
		Content:    "We meet on Friday",
		Excerpt:    "Friday meeting",
		Club:       model.RefTo[model.ClubSummary](clubID),
		Status:     model.StatusPublished,
		Visibility: visibility,
		Tags:       []string{"events"},
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

func assertKind(t *testing.T, err error, kind error) {
	t.Helper()

	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
}

func TestEndToEndApproval(t *testing.T) {
	env := setupTestService(t)
	a := env.createUser(t, "alice")
	b := env.createUser(t, "bob")

	club := env.createClub(t, a)
	if !club.IsSoleAdmin(a) || !club.IsMember(a) {
		t.Fatalf("creator should be sole admin and member, got %+v", club)
	}

	env.join(t, b, club.ID)

	post := env.createPost(t, b, club.ID, model.VisibilityPublic)
	if post.ApprovalStatus != model.ApprovalPending {
		t.Fatalf("expected pending, got %s", post.ApprovalStatus)
	}
	if env.publisher.count(rabbitmq.POST_SUBMITTED_QUEUE) != 1 {
		t.Fatalf("expected one submitted event")
	}

	_, err := env.svc.Post.FindByID(env.ctx, nil, post.ID)
	assertKind(t, err, apperr.ErrForbidden)

	seen, err := env.svc.Post.FindByID(env.ctx, env.requester(t, a), post.ID)
	if err != nil {
		t.Fatalf("admin view: %v", err)
	}

	reviewed, err := env.svc.Post.Review(env.ctx, env.requester(t, a), post.ID, model.ApprovalApproved)
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if reviewed.ApprovalStatus != model.ApprovalApproved {
		t.Fatalf("expected approved, got %s", reviewed.ApprovalStatus)
	}
	if env.publisher.count(rabbitmq.POST_REVIEWED_QUEUE) != 1 {
		t.Fatalf("expected one reviewed event")
	}

	fetched, err := env.svc.Post.FindByID(env.ctx, nil, post.ID)
	if err != nil {
		t.Fatalf("anonymous view after approval: %v", err)
	}
	if fetched.Views != seen.Views+1 {
		t.Fatalf("expected views %d, got %d", seen.Views+1, fetched.Views)
	}
}

func TestDeniedFetchDoesNotCountView(t *testing.T) {
	env := setupTestService(t)
	a := env.createUser(t, "alice")
	club := env.createClub(t, a)

	post := env.createPost(t, a, club.ID, model.VisibilityPrivate)

	_, err := env.svc.Post.FindByID(env.ctx, nil, post.ID)
	assertKind(t, err, apperr.ErrUnauthenticated)

	stored, err := env.repo.Store.Post.FindByID(env.ctx, post.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Views != 0 {
		t.Fatalf("expected no views, got %d", stored.Views)
	}

	_, err = env.svc.Post.FindByID(env.ctx, nil, uuid.New())
	assertKind(t, err, apperr.ErrNotFound)
}

func TestCreatePost(t *testing.T) {
	env := setupTestService(t)
	admin := env.createUser(t, "alice")
	member := env.createUser(t, "bob")
	outsider := env.createUser(t, "carol")
	club := env.createClub(t, admin)
	env.join(t, member, club.ID)

	if post := env.createPost(t, admin, club.ID, model.VisibilityPublic); post.ApprovalStatus != model.ApprovalApproved {
		t.Fatalf("admin post should be approved, got %s", post.ApprovalStatus)
	}
	if post := env.createPost(t, member, club.ID, model.VisibilityPublic); post.ApprovalStatus != model.ApprovalPending {
		t.Fatalf("member post should be pending, got %s", post.ApprovalStatus)
	}
	if env.publisher.count(rabbitmq.POST_SUBMITTED_QUEUE) != 1 {
		t.Fatalf("only the pending post should be announced")
	}

	valid := dto.CreatePostRequest{Title: "Hi", Content: "c", Excerpt: "e", Club: model.RefTo[model.ClubSummary](club.ID)}

	tests := []struct {
		name      string
		requester *model.Requester
		input     func() dto.CreatePostRequest
		kind      error
	}{
		{
			name:      "anonymous",
			requester: nil,
			input:     func() dto.CreatePostRequest { return valid },
			kind:      apperr.ErrUnauthenticated,
		},
		{
			name:      "anonymous with bad status",
			requester: nil,
			input: func() dto.CreatePostRequest {
				in := valid
				in.Status = "archived"
				return in
			},
			kind: apperr.ErrUnauthenticated,
		},
		{
			name:      "not a member",
			requester: env.requester(t, outsider),
			input:     func() dto.CreatePostRequest { return valid },
			kind:      apperr.ErrForbidden,
		},
		{
			name:      "missing club",
			requester: env.requester(t, member),
			input: func() dto.CreatePostRequest {
				in := valid
				in.Club = model.RefTo[model.ClubSummary](uuid.New())
				return in
			},
			kind: apperr.ErrNotFound,
		},
		{
			name:      "no club reference",
			requester: env.requester(t, member),
			input: func() dto.CreatePostRequest {
				in := valid
				in.Club = model.Ref[model.ClubSummary]{}
				return in
			},
			kind: apperr.ErrValidation,
		},
		{
			name:      "bad status",
			requester: env.requester(t, member),
			input: func() dto.CreatePostRequest {
				in := valid
				in.Status = "archived"
				return in
			},
			kind: apperr.ErrValidation,
		},
		{
			name:      "bad visibility",
			requester: env.requester(t, member),
			input: func() dto.CreatePostRequest {
				in := valid
				in.Visibility = "friends"
				return in
			},
			kind: apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Post.Create(env.ctx, tt.requester, tt.input())
			assertKind(t, err, tt.kind)
		})
	}
}

func TestCreatePostDefaults(t *testing.T) {
	env := setupTestService(t)
	admin := env.createUser(t, "alice")
	club := env.createClub(t, admin)

	post, err := env.svc.Post.Create(env.ctx, env.requester(t, admin), dto.CreatePostRequest{
		Title:   "Hi",
		Content: "c",
		Excerpt: "e",
		Club:    model.RefTo[model.ClubSummary](club.ID),
	})
	if err != nil {
		t.Fatal(err)
	}
	if post.Status != model.StatusDraft || post.Visibility != model.VisibilityPrivate {
		t.Fatalf("expected draft/private defaults, got %s/%s", post.Status, post.Visibility)
	}
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	repo := repository.New(memory.New(), memory.NewCache())
	svc := New(zap.NewNop(), repo, failingPublisher{})
	ctx := context.Background()

	admin, _ := repo.Store.User.Create(ctx, model.User{ID: uuid.New(), Username: "alice", Email: "alice@campus.edu"})
	member, _ := repo.Store.User.Create(ctx, model.User{ID: uuid.New(), Username: "bob", Email: "bob@campus.edu"})

	club, err := svc.Club.Create(ctx, &model.Requester{ID: admin.ID}, dto.CreateClubRequest{Name: "Chess"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Club.Join(ctx, &model.Requester{ID: member.ID}, club.ID); err != nil {
		t.Fatal(err)
	}

	_, err = svc.Post.Create(ctx, &model.Requester{ID: member.ID}, dto.CreatePostRequest{
		Title:   "Hi",
		Content: "c",
		Excerpt: "e",
		Club:    model.RefTo[model.ClubSummary](club.ID),
	})
	if err != nil {
		t.Fatalf("expected create to succeed despite broker failure, got %v", err)
	}
}

func TestUpdatePostApproval(t *testing.T) {
	env := setupTestService(t)
	admin := env.createUser(t, "alice")
	member := env.createUser(t, "bob")
	club := env.createClub(t, admin)
	env.join(t, member, club.ID)

	memberPost := env.createPost(t, member, club.ID, model.VisibilityPublic)
	if _, err := env.svc.Post.Review(env.ctx, env.requester(t, admin), memberPost.ID, model.ApprovalApproved); err != nil {
		t.Fatal(err)
	}

	updated, resubmitted, err := env.svc.Post.Update(env.ctx, env.requester(t, member), memberPost.ID, dto.EditPostRequest{
		Tags: []string{"chess", "events"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resubmitted || updated.ApprovalStatus != model.ApprovalApproved {
		t.Fatalf("tags-only edit should keep approval, got %s", updated.ApprovalStatus)
	}

	title := "Closing night"
	updated, resubmitted, err = env.svc.Post.Update(env.ctx, env.requester(t, member), memberPost.ID, dto.EditPostRequest{Title: &title})
	if err != nil {
		t.Fatal(err)
	}
	if !resubmitted || updated.ApprovalStatus != model.ApprovalPending {
		t.Fatalf("title edit should resubmit, got %s", updated.ApprovalStatus)
	}
	if env.publisher.count(rabbitmq.POST_SUBMITTED_QUEUE) != 2 {
		t.Fatalf("resubmission should be announced")
	}

	adminPost := env.createPost(t, admin, club.ID, model.VisibilityPublic)
	updated, resubmitted, err = env.svc.Post.Update(env.ctx, env.requester(t, admin), adminPost.ID, dto.EditPostRequest{Title: &title})
	if err != nil {
		t.Fatal(err)
	}
	if resubmitted || updated.ApprovalStatus != model.ApprovalApproved {
		t.Fatalf("admin edit should keep approval, got %s", updated.ApprovalStatus)
	}

	_, _, err = env.svc.Post.Update(env.ctx, env.requester(t, admin), memberPost.ID, dto.EditPostRequest{Title: &title})
	assertKind(t, err, apperr.ErrForbidden)

	bad := model.Visibility("friends")
	_, _, err = env.svc.Post.Update(env.ctx, env.requester(t, member), memberPost.ID, dto.EditPostRequest{Visibility: &bad})
	assertKind(t, err, apperr.ErrValidation)
}

func TestReviewPost(t *testing.T) {
	env := setupTestService(t)
	admin := env.createUser(t, "alice")
	member := env.createUser(t, "bob")
	club := env.createClub(t, admin)
	env.join(t, member, club.ID)
	post := env.createPost(t, member, club.ID, model.VisibilityPublic)

	_, err := env.svc.Post.Review(env.ctx, env.requester(t, member), post.ID, model.ApprovalApproved)
	assertKind(t, err, apperr.ErrForbidden)

	_, err = env.svc.Post.Review(env.ctx, env.requester(t, admin), post.ID, model.ApprovalPending)
	assertKind(t, err, apperr.ErrValidation)

	reviewed, err := env.svc.Post.Review(env.ctx, env.requester(t, admin), post.ID, model.ApprovalRejected)
	if err != nil {
		t.Fatal(err)
	}
	if reviewed.ApprovalStatus != model.ApprovalRejected {
		t.Fatalf("expected rejected, got %s", reviewed.ApprovalStatus)
	}

	_, err = env.svc.Post.FindByID(env.ctx, env.requester(t, member), post.ID)
	if err != nil {
		t.Fatalf("author should still see the rejected post: %v", err)
	}
}

func TestLastAdminCannotLeave(t *testing.T) {
	env := setupTestService(t)
	admin := env.createUser(t, "alice")
	member := env.createUser(t, "bob")
	club := env.createClub(t, admin)

	err := env.svc.Club.Leave(env.ctx, env.requester(t, admin), club.ID)
	assertKind(t, err, apperr.ErrConflict)

	env.join(t, member, club.ID)

	err = env.svc.Club.Leave(env.ctx, env.requester(t, admin), club.ID)
	assertKind(t, err, apperr.ErrConflict)

	after, err := env.repo.Store.Club.FindByID(env.ctx, club.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !after.IsSoleAdmin(admin) || !after.IsMember(admin) || after.Members.Len() != 2 {
		t.Fatalf("club changed after refused leave: %+v", after)
	}
}

func TestJoinAndLeave(t *testing.T) {
	env := setupTestService(t)
	admin := env.createUser(t, "alice")
	member := env.createUser(t, "bob")
	club := env.createClub(t, admin)

	err := env.svc.Club.Join(env.ctx, nil, club.ID)
	assertKind(t, err, apperr.ErrUnauthenticated)

	err = env.svc.Club.Leave(env.ctx, env.requester(t, member), club.ID)
	assertKind(t, err, apperr.ErrConflict)

	env.join(t, member, club.ID)
	if !env.requester(t, member).MemberOf.Has(club.ID) {
		t.Fatalf("cached identity should reflect the new membership")
	}

	err = env.svc.Club.Join(env.ctx, env.requester(t, member), club.ID)
	assertKind(t, err, apperr.ErrConflict)

	if err := env.svc.Club.Leave(env.ctx, env.requester(t, member), club.ID); err != nil {
		t.Fatal(err)
	}
	if env.requester(t, member).MemberOf.Has(club.ID) {
		t.Fatalf("cached identity should drop the membership")
	}

	err = env.svc.Club.Join(env.ctx, env.requester(t, member), uuid.New())
	assertKind(t, err, apperr.ErrNotFound)
}

func TestConcurrentJoinAddsOnce(t *testing.T) {
	env := setupTestService(t)
	admin := env.createUser(t, "alice")
	member := env.createUser(t, "bob")
	club := env.createClub(t, admin)
	requester := env.requester(t, member)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- env.svc.Club.Join(env.ctx, requester, club.ID)
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assertKind(t, err, apperr.ErrConflict)
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one successful join, got %d", succeeded)
	}
}

// approvedMemberPost returns a member's post the admin already approved.
func (e *testEnv) approvedMemberPost(t *testing.T) (admin uuid.UUID, member uuid.UUID, post *model.Post) {
	t.Helper()

	admin = e.createUser(t, "alice")
	member = e.createUser(t, "bob")
	club := e.createClub(t, admin)
	e.join(t, member, club.ID)

	post = e.createPost(t, member, club.ID, model.VisibilityPublic)
	if _, err := e.svc.Post.Review(e.ctx, e.requester(t, admin), post.ID, model.ApprovalApproved); err != nil {
		t.Fatal(err)
	}
	return admin, member, post
}

func TestEditInterleavedWithRejection(t *testing.T) {
	tests := []struct {
		name string
		edit policy.PostEdit
	}{
		{name: "tags only", edit: policy.PostEdit{Tags: []string{"x"}}},
		{name: "content change", edit: policy.PostEdit{Title: strPtr("Closing night")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestService(t)
			admin, _, post := env.approvedMemberPost(t)

			// The edit read the post before the admin's decision and writes after it.
			stale, err := env.repo.Store.Post.FindByID(env.ctx, post.ID)
			if err != nil {
				t.Fatal(err)
			}

			if _, err := env.svc.Post.Review(env.ctx, env.requester(t, admin), post.ID, model.ApprovalRejected); err != nil {
				t.Fatal(err)
			}

			edited, resubmit := policy.ApplyEdit(*stale, tt.edit, false)
			updated, err := env.repo.Store.Post.Update(env.ctx, edited, resubmit)
			if err != nil {
				t.Fatal(err)
			}
			if updated.ApprovalStatus != model.ApprovalRejected {
				t.Fatalf("late edit overwrote the rejection with %s", updated.ApprovalStatus)
			}

			_, err = env.svc.Post.FindByID(env.ctx, nil, post.ID)
			assertKind(t, err, apperr.ErrForbidden)
		})
	}
}

func TestEditRejectedPostStaysRejected(t *testing.T) {
	env := setupTestService(t)
	admin, member, post := env.approvedMemberPost(t)

	if _, err := env.svc.Post.Review(env.ctx, env.requester(t, admin), post.ID, model.ApprovalRejected); err != nil {
		t.Fatal(err)
	}
	submitted := env.publisher.count(rabbitmq.POST_SUBMITTED_QUEUE)

	updated, resubmitted, err := env.svc.Post.Update(env.ctx, env.requester(t, member), post.ID, dto.EditPostRequest{Title: strPtr("Fixed")})
	if err != nil {
		t.Fatal(err)
	}
	if resubmitted || updated.ApprovalStatus != model.ApprovalRejected {
		t.Fatalf("author edit moved rejected post to %s", updated.ApprovalStatus)
	}
	if env.publisher.count(rabbitmq.POST_SUBMITTED_QUEUE) != submitted {
		t.Fatalf("rejected post must not be announced for review")
	}
}

func TestStaleCacheAfterDecision(t *testing.T) {
	env := setupTestService(t)
	admin, member, post := env.approvedMemberPost(t)

	decisions := []struct {
		name   string
		decide func(t *testing.T)
	}{
		{
			name: "rejected",
			decide: func(t *testing.T) {
				if _, err := env.svc.Post.Review(env.ctx, env.requester(t, admin), post.ID, model.ApprovalRejected); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "resubmitted by edit",
			decide: func(t *testing.T) {
				if _, err := env.svc.Post.Review(env.ctx, env.requester(t, admin), post.ID, model.ApprovalApproved); err != nil {
					t.Fatal(err)
				}
				if _, _, err := env.svc.Post.Update(env.ctx, env.requester(t, member), post.ID, dto.EditPostRequest{Content: strPtr("New agenda")}); err != nil {
					t.Fatal(err)
				}
			},
		},
	}

	for _, tt := range decisions {
		t.Run(tt.name, func(t *testing.T) {
			// A reader loaded the approved post, then fills the cache after the change.
			stale, err := env.repo.Store.Post.FindByID(env.ctx, post.ID)
			if err != nil {
				t.Fatal(err)
			}
			stale.ApprovalStatus = model.ApprovalApproved

			tt.decide(t)

			if err := env.repo.Cache.SetJSON(env.ctx, redisrepo.PostKey(post.ID), stale, time.Hour); err != nil {
				t.Fatal(err)
			}

			_, err = env.svc.Post.FindByID(env.ctx, nil, post.ID)
			assertKind(t, err, apperr.ErrForbidden)

			if err := env.repo.Cache.Get(env.ctx, redisrepo.PostKey(post.ID)).Err(); err != redis.Nil {
				t.Fatalf("stale cache entry should be dropped, got %v", err)
			}

			seen, err := env.svc.Post.FindByID(env.ctx, env.requester(t, member), post.ID)
			if err != nil {
				t.Fatal(err)
			}
			if seen.ApprovalStatus == model.ApprovalApproved {
				t.Fatalf("author sees stale approval status")
			}
		})
	}
}

func TestStaleCacheAfterDelete(t *testing.T) {
	env := setupTestService(t)
	admin, _, post := env.approvedMemberPost(t)

	stale, err := env.repo.Store.Post.FindByID(env.ctx, post.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := env.svc.Post.Delete(env.ctx, env.requester(t, admin), post.ID); err != nil {
		t.Fatal(err)
	}
	if err := env.repo.Cache.SetJSON(env.ctx, redisrepo.PostKey(post.ID), stale, time.Hour); err != nil {
		t.Fatal(err)
	}

	_, err = env.svc.Post.FindByID(env.ctx, nil, post.ID)
	assertKind(t, err, apperr.ErrNotFound)
}

func strPtr(s string) *string { return &s }

func TestUpdateClub(t *testing.T) {
	env := setupTestService(t)
	admin := env.createUser(t, "alice")
	member := env.createUser(t, "bob")
	club := env.createClub(t, admin)
	env.join(t, member, club.ID)

	_, err := env.svc.Club.Update(env.ctx, env.requester(t, member), club.ID, dto.UpdateClubRequest{Name: "Go Club"})
	assertKind(t, err, apperr.ErrForbidden)

	updated, err := env.svc.Club.Update(env.ctx, env.requester(t, admin), club.ID, dto.UpdateClubRequest{Description: "Weekly games"})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != club.Name || updated.Description != "Weekly games" {
		t.Fatalf("unexpected club after update: %+v", updated)
	}
}

func TestClubFindByIDFiltersPosts(t *testing.T) {
	env := setupTestService(t)
	admin := env.createUser(t, "alice")
	member := env.createUser(t, "bob")
	club := env.createClub(t, admin)
	env.join(t, member, club.ID)

	env.createPost(t, admin, club.ID, model.VisibilityPublic)
	env.createPost(t, member, club.ID, model.VisibilityPublic)

	other := env.createClub(t, member)
	env.createPost(t, member, other.ID, model.VisibilityPublic)

	tests := []struct {
		name      string
		requester *model.Requester
		posts     int
	}{
		{name: "anonymous sees approved public", requester: nil, posts: 1},
		{name: "author sees own pending", requester: env.requester(t, member), posts: 2},
		{name: "admin sees pending", requester: env.requester(t, admin), posts: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			full, err := env.svc.Club.FindByID(env.ctx, tt.requester, club.ID)
			if err != nil {
				t.Fatal(err)
			}
			if len(full.Posts) != tt.posts {
				t.Fatalf("expected %d posts, got %d", tt.posts, len(full.Posts))
			}
			for _, post := range full.Posts {
				if post.Club.ID != club.ID {
					t.Fatalf("post %s belongs to another club", post.ID)
				}
			}
		})
	}
}

func TestFindAndFindPending(t *testing.T) {
	env := setupTestService(t)
	admin := env.createUser(t, "alice")
	member := env.createUser(t, "bob")
	club := env.createClub(t, admin)
	env.join(t, member, club.ID)

	env.createPost(t, admin, club.ID, model.VisibilityPublic)
	env.createPost(t, admin, club.ID, model.VisibilityPrivate)
	pending := env.createPost(t, member, club.ID, model.VisibilityPublic)

	posts, err := env.svc.Post.Find(env.ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 1 {
		t.Fatalf("anonymous feed should hold the public approved post, got %d", len(posts))
	}

	posts, err = env.svc.Post.Find(env.ctx, env.requester(t, admin))
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 3 {
		t.Fatalf("admin should list every club post, got %d", len(posts))
	}

	queue, err := env.svc.Post.FindPending(env.ctx, env.requester(t, admin))
	if err != nil {
		t.Fatal(err)
	}
	if len(queue) != 1 || queue[0].ID != pending.ID {
		t.Fatalf("unexpected pending queue: %+v", queue)
	}

	queue, err = env.svc.Post.FindPending(env.ctx, env.requester(t, member))
	if err != nil {
		t.Fatal(err)
	}
	if len(queue) != 0 {
		t.Fatalf("non-admin should have an empty queue, got %d", len(queue))
	}

	_, err = env.svc.Post.FindPending(env.ctx, nil)
	assertKind(t, err, apperr.ErrUnauthenticated)
}

func TestLikeIdempotence(t *testing.T) {
	env := setupTestService(t)
	admin := env.createUser(t, "alice")
	reader := env.createUser(t, "bob")
	club := env.createClub(t, admin)
	post := env.createPost(t, admin, club.ID, model.VisibilityPublic)
	requester := env.requester(t, reader)

	err := env.svc.Post.Like(env.ctx, requester, post.ID, true)
	assertKind(t, err, apperr.ErrConflict)

	if err := env.svc.Post.Like(env.ctx, requester, post.ID, false); err != nil {
		t.Fatal(err)
	}

	liked, err := env.svc.Post.FindByID(env.ctx, requester, post.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !liked.Likes.Has(reader) {
		t.Fatalf("like should be visible through the cache")
	}

	err = env.svc.Post.Like(env.ctx, requester, post.ID, false)
	assertKind(t, err, apperr.ErrConflict)

	if err := env.svc.Post.Like(env.ctx, requester, post.ID, true); err != nil {
		t.Fatal(err)
	}

	after, err := env.repo.Store.Post.FindByID(env.ctx, post.ID)
	if err != nil {
		t.Fatal(err)
	}
	if after.Likes.Len() != 0 {
		t.Fatalf("like then unlike should restore the like set, got %v", after.Likes.Slice())
	}

	err = env.svc.Post.Like(env.ctx, nil, post.ID, false)
	assertKind(t, err, apperr.ErrUnauthenticated)
}

func TestDeletePost(t *testing.T) {
	env := setupTestService(t)
	admin := env.createUser(t, "alice")
	member := env.createUser(t, "bob")
	other := env.createUser(t, "carol")
	club := env.createClub(t, admin)
	env.join(t, member, club.ID)
	env.join(t, other, club.ID)

	first := env.createPost(t, member, club.ID, model.VisibilityPublic)
	second := env.createPost(t, member, club.ID, model.VisibilityPublic)

	err := env.svc.Post.Delete(env.ctx, env.requester(t, other), first.ID)
	assertKind(t, err, apperr.ErrForbidden)

	if err := env.svc.Post.Delete(env.ctx, env.requester(t, member), first.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if err := env.svc.Post.Delete(env.ctx, env.requester(t, admin), second.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}

	_, err = env.svc.Post.FindByID(env.ctx, env.requester(t, admin), first.ID)
	assertKind(t, err, apperr.ErrNotFound)
}

func TestCommentLifecycle(t *testing.T) {
	env := setupTestService(t)
	admin := env.createUser(t, "alice")
	reader := env.createUser(t, "bob")
	club := env.createClub(t, admin)
	post := env.createPost(t, admin, club.ID, model.VisibilityPrivate)

	_, err := env.svc.Comment.Create(env.ctx, nil, dto.CreateCommentRequest{PostID: post.ID, Content: "hi"})
	assertKind(t, err, apperr.ErrUnauthenticated)

	_, err = env.svc.Comment.Create(env.ctx, env.requester(t, reader), dto.CreateCommentRequest{PostID: uuid.New(), Content: "hi"})
	assertKind(t, err, apperr.ErrNotFound)

	comment, err := env.svc.Comment.Create(env.ctx, env.requester(t, reader), dto.CreateCommentRequest{PostID: post.ID, Content: "see you there"})
	if err != nil {
		t.Fatal(err)
	}

	fetched, err := env.svc.Post.FindByID(env.ctx, env.requester(t, reader), post.ID)
	if err != nil {
		t.Fatal(err)
	}
	if fetched.Comments != 1 {
		t.Fatalf("expected comment counter 1, got %d", fetched.Comments)
	}

	_, err = env.svc.Comment.FindPostComments(env.ctx, nil, post.ID)
	assertKind(t, err, apperr.ErrUnauthenticated)

	comments, err := env.svc.Comment.FindPostComments(env.ctx, env.requester(t, reader), post.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(comments) != 1 || comments[0].ID != comment.ID {
		t.Fatalf("unexpected comments: %+v", comments)
	}

	err = env.svc.Comment.Delete(env.ctx, env.requester(t, admin), comment.ID)
	assertKind(t, err, apperr.ErrForbidden)

	if err := env.svc.Comment.Delete(env.ctx, env.requester(t, reader), comment.ID); err != nil {
		t.Fatal(err)
	}

	err = env.svc.Comment.Delete(env.ctx, env.requester(t, reader), comment.ID)
	assertKind(t, err, apperr.ErrNotFound)

	fetched, err = env.svc.Post.FindByID(env.ctx, env.requester(t, reader), post.ID)
	if err != nil {
		t.Fatal(err)
	}
	if fetched.Comments != 0 {
		t.Fatalf("expected comment counter 0, got %d", fetched.Comments)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	t.Setenv("ACCESS_SECRET", "test-secret")
	env := setupTestService(t)

	input := dto.RegisterRequest{Username: "Alice", Email: "Alice@Campus.edu", Password: "hunter22", FullName: "Alice A"}
	registered, err := env.svc.User.Register(env.ctx, input)
	if err != nil {
		t.Fatal(err)
	}
	if registered.Token == "" || registered.User.Username != "alice" {
		t.Fatalf("unexpected auth response: %+v", registered)
	}

	_, err = env.svc.User.Register(env.ctx, input)
	assertKind(t, err, apperr.ErrConflict)

	loggedIn, err := env.svc.User.Login(env.ctx, dto.LoginRequest{Email: "alice@campus.edu", Password: "hunter22"})
	if err != nil {
		t.Fatal(err)
	}
	if loggedIn.User.ID != registered.User.ID {
		t.Fatalf("login returned another user")
	}

	for i, creds := range []dto.LoginRequest{
		{Email: "alice@campus.edu", Password: "wrong"},
		{Email: "nobody@campus.edu", Password: "hunter22"},
	} {
		t.Run(fmt.Sprintf("bad credentials %d", i), func(t *testing.T) {
			_, err := env.svc.User.Login(env.ctx, creds)
			assertKind(t, err, apperr.ErrUnauthenticated)
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	env := setupTestService(t)
	id := env.createUser(t, "alice")
	env.requester(t, id)

	bio := "Plays chess"
	user, err := env.svc.User.UpdateProfile(env.ctx, id, dto.UpdateProfileRequest{Bio: &bio})
	if err != nil {
		t.Fatal(err)
	}
	if user.Bio != bio {
		t.Fatalf("expected bio %q, got %q", bio, user.Bio)
	}

	public, err := env.svc.User.FindByUsername(env.ctx, "ALICE")
	if err != nil {
		t.Fatal(err)
	}
	if public.Email != "" {
		t.Fatalf("public profile should hide the email")
	}

	_, err = env.svc.User.FindByUsername(env.ctx, "nobody")
	assertKind(t, err, apperr.ErrNotFound)
}
