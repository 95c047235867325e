package services

import (
	"context"
	"errors"

	"github.com/liemhoanglong/voting-game-server/internal/game"
	"github.com/liemhoanglong/voting-game-server/internal/models"

	"gorm.io/gorm"
)

// TeamService owns team and membership records. It is the game core's
// Directory; room state itself never touches the relational database.
type TeamService struct {
	db *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{db: db}
}

func (s *TeamService) CreateTeam(ctx context.Context, name string, adminID uint, invites []game.MemberInvite) (*models.Team, error) {
	team := models.Team{
		Name:         name,
		VotingSystem: models.VotingSystemFibonacci,
	}
	if err := s.db.WithContext(ctx).Create(&team).Error; err != nil {
		return nil, err
	}

	admin := models.Membership{
		TeamID: team.ID,
		UserID: adminID,
		Role:   models.RoleAdmin,
	}
	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return nil, err
	}

	if _, err := s.AddMembersByEmail(ctx, team.ID, invites); err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *TeamService) TeamByID(ctx context.Context, teamID uint) (*models.Team, error) {
	var team models.Team
	err := s.db.WithContext(ctx).First(&team, teamID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *TeamService) MembershipOf(ctx context.Context, teamID, userID uint) (*models.Membership, error) {
	var membership models.Membership
	err := s.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (s *TeamService) TeamMembers(ctx context.Context, teamID uint) ([]models.Membership, error) {
	var memberships []models.Membership
	err := s.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Preload("User").
		Find(&memberships).Error
	return memberships, err
}

func (s *TeamService) UpdateRole(ctx context.Context, teamID, userID uint, role int) error {
	return s.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Update("role", role).Error
}

func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID uint) error {
	return s.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&models.Membership{}).Error
}

// AddMembersByEmail creates memberships for invited addresses that belong
// to registered users. Unknown addresses are skipped silently.
func (s *TeamService) AddMembersByEmail(ctx context.Context, teamID uint, invites []game.MemberInvite) ([]game.MemberInfo, error) {
	added := make([]game.MemberInfo, 0, len(invites))
	for _, invite := range invites {
		var user models.User
		err := s.db.WithContext(ctx).Where("email = ?", invite.Email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		membership := models.Membership{
			TeamID: teamID,
			UserID: user.ID,
			Role:   invite.Role,
		}
		if err := s.db.WithContext(ctx).Create(&membership).Error; err != nil {
			// Most likely already a member; keep going.
			continue
		}
		added = append(added, game.MemberInfo{
			UserID: user.ID,
			Email:  user.Email,
			Name:   user.Name,
			Role:   invite.Role,
		})
	}
	return added, nil
}
