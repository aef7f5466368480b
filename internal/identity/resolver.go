package identity

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"counseling-chat-be/internal/apperror"
	"counseling-chat-be/internal/entity"
	"counseling-chat-be/internal/repository/contract"
)

// Principal is a resolved chat participant: either an anonymous user or a
// counselor, never both.
type Principal struct {
	Id    uuid.UUID
	Kind  string // entity.ParticipantKindUser or entity.ParticipantKindCounselor
	Name  string
	Email string
}

// Resolver turns bearer tokens into principals. Lookups are cached briefly
// since every WebSocket attach and REST call goes through here.
type Resolver struct {
	users      contract.UserRepository
	counselors contract.CounselorRepository
	secret     string
	cache      *gocache.Cache
}

func NewResolver(users contract.UserRepository, counselors contract.CounselorRepository, secret string) *Resolver {
	return &Resolver{
		users:      users,
		counselors: counselors,
		secret:     secret,
		cache:      gocache.New(time.Minute, 5*time.Minute),
	}
}

// ResolveToken validates the JWT and resolves the identity it names.
func (r *Resolver) ResolveToken(ctx context.Context, tokenStr string) (*Principal, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(r.secret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperror.Authentication("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperror.Authentication("invalid claims")
	}

	idStr, _ := claims["user_id"].(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, apperror.Authentication("invalid subject id")
	}

	return r.Resolve(ctx, id)
}

// Resolve looks up an id as a user first, then as a counselor. Inactive
// identities resolve to not found.
func (r *Resolver) Resolve(ctx context.Context, id uuid.UUID) (*Principal, error) {
	if cached, found := r.cache.Get(id.String()); found {
		return cached.(*Principal), nil
	}

	user, err := r.users.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user != nil {
		if !user.IsActive {
			return nil, apperror.NotFound("identity %s is inactive", id)
		}
		p := &Principal{Id: user.Id, Kind: entity.ParticipantKindUser, Name: user.Nickname, Email: user.Email}
		r.cache.SetDefault(id.String(), p)
		return p, nil
	}

	counselor, err := r.counselors.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if counselor != nil {
		if !counselor.IsActive {
			return nil, apperror.NotFound("identity %s is inactive", id)
		}
		p := &Principal{Id: counselor.Id, Kind: entity.ParticipantKindCounselor, Name: counselor.Name, Email: counselor.Email}
		r.cache.SetDefault(id.String(), p)
		return p, nil
	}

	return nil, apperror.NotFound("identity %s", id)
}

// Invalidate drops a cached principal, e.g. after a profile update.
func (r *Resolver) Invalidate(id uuid.UUID) {
	r.cache.Delete(id.String())
}
