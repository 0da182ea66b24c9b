package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pageza/despensa/backend/internal/graph"
	"github.com/pageza/despensa/backend/internal/models"
	"github.com/pageza/despensa/backend/internal/types"
)

// UserService serves public profiles, the follow graph and preferences
type UserService struct {
	db    *gorm.DB
	graph graph.Store
	log   logrus.FieldLogger
}

var _ IUserService = (*UserService)(nil)

func NewUserService(db *gorm.DB, store graph.Store, log logrus.FieldLogger) *UserService {
	return &UserService{db: db, graph: store, log: log}
}

// activeUser loads an active user; unknown and inactive users are ErrNotFound
func (s *UserService) activeUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetPublic returns a profile with follow counts. A zero viewer is anonymous
// and never follows anyone.
func (s *UserService) GetPublic(ctx context.Context, viewer, id uuid.UUID) (*types.UserProfileResponse, error) {
	u, err := s.activeUser(ctx, id)
	if err != nil {
		return nil, err
	}
	followers, following, err := s.graph.Counts(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	var isFollowing bool
	if viewer != uuid.Nil && viewer != u.ID {
		if isFollowing, err = s.graph.IsFollowing(ctx, viewer, u.ID); err != nil {
			return nil, err
		}
	}

	return &types.UserProfileResponse{
		PublicUser:     types.NewPublicUser(u),
		FollowersCount: followers,
		FollowingCount: following,
		IsFollowing:    isFollowing,
	}, nil
}

// Search finds active users whose name contains Query or whose favourite cuisines include Cuisine
func (s *UserService) Search(ctx context.Context, search types.UserSearch, page types.PageRequest) (types.Page[types.PublicUser], error) {
	q := s.db.WithContext(ctx).Model(&models.User{}).Where("users.is_active = ?", true)

	if name := strings.TrimSpace(search.Query); name != "" {
		q = q.Where("LOWER(users.name) LIKE ? ESCAPE '"+likeEscape+"'", containsPattern(name))
	}
	if search.Cuisine != nil {
		if s.db.Dialector.Name() == "postgres" {
			q = q.Where("users.preferences->'favorite_cuisines' @> jsonb_build_array(?::text)", string(*search.Cuisine))
		} else {
			q = q.Where("EXISTS (SELECT 1 FROM json_each(users.preferences, '$.favorite_cuisines') WHERE json_each.value = ?)", string(*search.Cuisine))
		}
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return types.Page[types.PublicUser]{}, err
	}

	var users []models.User
	if err := q.Order("LOWER(users.name)").Order("users.id").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&users).Error; err != nil {
		return types.Page[types.PublicUser]{}, err
	}

	items := make([]types.PublicUser, len(users))
	for i := range users {
		items[i] = types.NewPublicUser(&users[i])
	}
	return types.NewPage(items, page, total), nil
}

func (s *UserService) Followers(ctx context.Context, id uuid.UUID, page types.PageRequest) (types.Page[types.PublicUser], error) {
	return s.neighbours(ctx, id, page, s.graph.Followers)
}

func (s *UserService) Following(ctx context.Context, id uuid.UUID, page types.PageRequest) (types.Page[types.PublicUser], error) {
	return s.neighbours(ctx, id, page, s.graph.Following)
}

type neighbourFunc func(ctx context.Context, userID uuid.UUID, offset, limit int) ([]uuid.UUID, int64, error)

// neighbours loads one page of edge endpoints and resolves them to users, keeping the graph order
func (s *UserService) neighbours(ctx context.Context, id uuid.UUID, page types.PageRequest, list neighbourFunc) (types.Page[types.PublicUser], error) {
	if _, err := s.activeUser(ctx, id); err != nil {
		return types.Page[types.PublicUser]{}, err
	}

	ids, total, err := list(ctx, id, page.Offset(), page.Limit)
	if err != nil {
		return types.Page[types.PublicUser]{}, err
	}

	items := make([]types.PublicUser, 0, len(ids))
	if len(ids) > 0 {
		var users []models.User
		if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
			return types.Page[types.PublicUser]{}, err
		}
		byID := make(map[uuid.UUID]*models.User, len(users))
		for i := range users {
			byID[users[i].ID] = &users[i]
		}
		for _, uid := range ids {
			if u, ok := byID[uid]; ok {
				items = append(items, types.NewPublicUser(u))
			}
		}
	}
	return types.NewPage(items, page, total), nil
}

// Stats reports follow counts and the number of public recipes the user authored
func (s *UserService) Stats(ctx context.Context, id uuid.UUID) (*types.UserStats, error) {
	u, err := s.activeUser(ctx, id)
	if err != nil {
		return nil, err
	}
	followers, following, err := s.graph.Counts(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	var recipes int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("created_by = ? AND is_public = ?", u.ID, true).
		Count(&recipes).Error; err != nil {
		return nil, err
	}

	return &types.UserStats{
		FollowersCount: followers,
		FollowingCount: following,
		RecipesCount:   recipes,
		JoinDate:       u.CreatedAt,
		IsActive:       u.IsActive,
	}, nil
}

// ToggleFollow follows target on behalf of current, or unfollows if already following
func (s *UserService) ToggleFollow(ctx context.Context, current, target uuid.UUID) (*types.FollowResult, error) {
	if current == target {
		return nil, NewValidationError("user_id", "you cannot follow yourself")
	}
	if _, err := s.activeUser(ctx, target); err != nil {
		return nil, err
	}

	following, err := s.graph.Toggle(ctx, current, target)
	if err != nil {
		return nil, err
	}

	followers, _, err := s.graph.Counts(ctx, target)
	if err != nil {
		return nil, err
	}
	_, myFollowing, err := s.graph.Counts(ctx, current)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":   current,
		"target_id": target,
		"following": following,
	}).Debug("Follow toggled")

	return &types.FollowResult{
		Following:      following,
		FollowersCount: followers,
		FollowingCount: myFollowing,
	}, nil
}

// UpdatePreferences replaces only the preference fields present in req
func (s *UserService) UpdatePreferences(ctx context.Context, id uuid.UUID, req *types.UpdatePreferencesRequest) (*models.User, error) {
	u, err := s.activeUser(ctx, id)
	if err != nil {
		return nil, err
	}

	prefs := u.Preferences
	if req.DietaryRestrictions != nil {
		prefs.DietaryRestrictions = append([]models.DietaryRestriction{}, *req.DietaryRestrictions...)
	}
	if req.FavoriteCuisines != nil {
		prefs.FavoriteCuisines = append([]models.Cuisine{}, *req.FavoriteCuisines...)
	}
	if req.CookingSkill != nil {
		prefs.CookingSkill = *req.CookingSkill
	}

	verr := &ValidationError{}
	validatePreferences(&prefs, verr)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(u).Update("preferences", prefs).Error; err != nil {
		return nil, err
	}
	u.Preferences = prefs
	return u, nil
}
