package persistent

import (
	"strings"

	"monadtok/services/subscription/internal/entity"
	"monadtok/services/subscription/internal/model"

	"gorm.io/gorm"
)

type DeploymentRepository interface {
	Create(deployment *entity.Deployment) error
	GetByTxHash(txHash string) (*entity.Deployment, error)
	SetContractAddress(id, contractAddress string, status entity.DeploymentStatus) error
	UpdateStatus(id string, status entity.DeploymentStatus) error
}

type deploymentRepository struct {
	db *gorm.DB
}

func NewDeploymentRepository(db *gorm.DB) DeploymentRepository {
	return &deploymentRepository{db: db}
}

func (r *deploymentRepository) Create(deployment *entity.Deployment) error {
	deploymentModel := ToDeploymentModel(deployment)
	if err := r.db.Create(deploymentModel).Error; err != nil {
		return err
	}
	*deployment = *ToDeploymentEntity(deploymentModel)
	return nil
}

func (r *deploymentRepository) GetByTxHash(txHash string) (*entity.Deployment, error) {
	var deploymentModel model.DeploymentModel
	if err := r.db.Where("tx_hash = ?", strings.ToLower(txHash)).First(&deploymentModel).Error; err != nil {
		return nil, err
	}
	return ToDeploymentEntity(&deploymentModel), nil
}

func (r *deploymentRepository) SetContractAddress(id, contractAddress string, status entity.DeploymentStatus) error {
	return r.db.Model(&model.DeploymentModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"contract_address": strings.ToLower(contractAddress),
			"status":           string(status),
		}).Error
}

func (r *deploymentRepository) UpdateStatus(id string, status entity.DeploymentStatus) error {
	return r.db.Model(&model.DeploymentModel{}).
		Where("id = ?", id).
		Update("status", string(status)).Error
}
