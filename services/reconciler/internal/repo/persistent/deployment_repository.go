package persistent

import (
	"strings"
	"time"

	"monadtok/services/reconciler/internal/entity"
	"monadtok/services/reconciler/internal/model"

	"gorm.io/gorm"
)

type DeploymentRepository interface {
	GetByID(id string) (*entity.Deployment, error)
	GetLatestByCreator(wallet string) (*entity.Deployment, error)
	ListStuck(olderThan time.Time, limit int) ([]*entity.Deployment, error)
	MarkReconciled(id, contractAddress string) error
	MarkFailed(id string) error
}

type deploymentRepository struct {
	db *gorm.DB
}

func NewDeploymentRepository(db *gorm.DB) DeploymentRepository {
	return &deploymentRepository{db: db}
}

func (r *deploymentRepository) GetByID(id string) (*entity.Deployment, error) {
	var deploymentModel model.DeploymentModel
	if err := r.db.Where("id = ?", id).First(&deploymentModel).Error; err != nil {
		return nil, err
	}
	return ToDeploymentEntity(&deploymentModel), nil
}

func (r *deploymentRepository) GetLatestByCreator(wallet string) (*entity.Deployment, error) {
	var deploymentModel model.DeploymentModel
	err := r.db.Where("creator_wallet = ?", strings.ToLower(wallet)).
		Order("created_at DESC").
		First(&deploymentModel).Error
	if err != nil {
		return nil, err
	}
	return ToDeploymentEntity(&deploymentModel), nil
}

// ListStuck returns deployments that never reached a terminal status and are
// old enough that the synchronous flow has clearly abandoned them.
func (r *deploymentRepository) ListStuck(olderThan time.Time, limit int) ([]*entity.Deployment, error) {
	var deploymentModels []model.DeploymentModel
	err := r.db.Where("status IN ?", []string{
		string(entity.DeploymentPending),
		string(entity.DeploymentConfirmed),
	}).
		Where("created_at < ?", olderThan).
		Order("created_at ASC").
		Limit(limit).
		Find(&deploymentModels).Error
	if err != nil {
		return nil, err
	}

	deployments := make([]*entity.Deployment, len(deploymentModels))
	for i := range deploymentModels {
		deployments[i] = ToDeploymentEntity(&deploymentModels[i])
	}
	return deployments, nil
}

func (r *deploymentRepository) MarkReconciled(id, contractAddress string) error {
	return r.db.Model(&model.DeploymentModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"contract_address": strings.ToLower(contractAddress),
			"status":           string(entity.DeploymentReconciled),
		}).Error
}

func (r *deploymentRepository) MarkFailed(id string) error {
	return r.db.Model(&model.DeploymentModel{}).
		Where("id = ?", id).
		Update("status", string(entity.DeploymentFailed)).Error
}
