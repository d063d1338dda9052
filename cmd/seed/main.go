package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"monadtok/pkg/cache"
	"monadtok/pkg/config"
	"monadtok/pkg/database"
	"monadtok/pkg/logger"
	"monadtok/pkg/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		panic(err)
	}

	if err := seedDatabase(db, redisClient, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(db *gorm.DB, redisClient *redis.Client, log *logger.Logger) error {
	testUsers := []struct {
		wallet   string
		username string
	}{
		{"0x70997970c51812dc3a010c7d01b50e0d17dc79c8", "alice_mon"},
		{"0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc", "bob_mon"},
		{"0x90f79bf6eb2c4f870365e785982e1f101e93b906", "charlie_mon"},
		{"0x15d34aaf54267db7d7c367839aaf71a00a2c6a65", "diana_mon"},
	}

	sampleVideos := []string{
		"https://test-videos.co.uk/vids/bigbuckbunny/mp4/h264/360/Big_Buck_Bunny_360_10s_1MB.mp4",
		"https://test-videos.co.uk/vids/sintel/mp4/h264/360/Sintel_360_10s_1MB.mp4",
		"https://test-videos.co.uk/vids/jellyfish/mp4/h264/360/Jellyfish_360_10s_1MB.mp4",
	}

	var exclusiveVideo *models.Video

	for i, userData := range testUsers {
		var existingUser models.User
		result := db.Where("wallet_address = ?", userData.wallet).First(&existingUser)
		if result.Error == nil {
			log.Info("User %s already exists, skipping", userData.username)
			continue
		}

		user := &models.User{
			WalletAddress: userData.wallet,
			Username:      userData.username,
		}
		if err := db.Create(user).Error; err != nil {
			log.Error("Failed to create user %s: %v", userData.username, err)
			continue
		}
		log.Info("Created user: %s (%s)", user.Username, user.WalletAddress)

		videosCount := 2 + (i % 2)
		for j := 0; j < videosCount; j++ {
			exclusive := j == 0 && i%2 == 1
			video := &models.Video{
				VideoURL:      sampleVideos[(i+j)%len(sampleVideos)],
				Description:   fmt.Sprintf("Demo clip %d from %s", j+1, userData.username),
				CreatorWallet: userData.wallet,
				IsExclusive:   exclusive,
			}
			if exclusive {
				video.Price = 0.5
			}

			if err := db.Create(video).Error; err != nil {
				log.Error("Failed to create video for %s: %v", userData.username, err)
				continue
			}

			addToFeed(redisClient, video)
			if exclusive && exclusiveVideo == nil {
				exclusiveVideo = video
			}
			time.Sleep(50 * time.Millisecond)
		}
	}

	log.Info("Created demo videos")

	if err := seedSubscription(db, log); err != nil {
		return err
	}
	if exclusiveVideo != nil {
		if err := seedUnlock(db, exclusiveVideo, testUsers[0].wallet, log); err != nil {
			return err
		}
	}

	return nil
}

// seedSubscription gives bob a reconciled demo deployment with the matching
// profile fields, so earnings and subscription reads have local data.
func seedSubscription(db *gorm.DB, log *logger.Logger) error {
	creator := "0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc"
	txHash := "0x" + strings.Repeat("ab", 32)
	contract := "0x5fbdb2315678afecb367f032d93f642f64180aa3"

	var existing models.Deployment
	if err := db.Where("tx_hash = ?", txHash).First(&existing).Error; err == nil {
		log.Info("Demo deployment already exists, skipping")
		return nil
	}

	deployment := &models.Deployment{
		CreatorWallet:   creator,
		TxHash:          txHash,
		Name:            "Bob Superfans",
		Symbol:          "BOB",
		Price:           1,
		MaxSupply:       1000,
		MaxPerWallet:    1,
		ContractAddress: contract,
		Status:          models.DeploymentReconciled,
	}
	if err := db.Create(deployment).Error; err != nil {
		return err
	}
	log.Info("Created demo deployment for %s", creator)

	return db.Model(&models.User{}).Where("wallet_address = ?", creator).Updates(map[string]interface{}{
		"subscription_contract_address": contract,
		"subscription_name":             deployment.Name,
		"subscription_symbol":           deployment.Symbol,
		"subscription_price":            deployment.Price,
	}).Error
}

// seedUnlock records alice paying to view the first exclusive demo video.
func seedUnlock(db *gorm.DB, video *models.Video, buyer string, log *logger.Logger) error {
	var existing models.Unlock
	if err := db.Where("video_id = ? AND buyer_wallet = ?", video.ID, buyer).First(&existing).Error; err == nil {
		log.Info("Demo unlock already exists, skipping")
		return nil
	}

	unlock := &models.Unlock{
		VideoID:     video.ID,
		BuyerWallet: buyer,
		TxHash:      "0x" + strings.Repeat("cd", 32),
		AmountWei:   "500000000000000000",
	}
	if err := db.Create(unlock).Error; err != nil {
		return err
	}
	log.Info("Created demo unlock for video %s", video.ID)
	return nil
}

func addToFeed(redisClient *redis.Client, video *models.Video) {
	ctx := context.Background()
	globalFeedKey := "feed:global"
	redisClient.LPush(ctx, globalFeedKey, video.ID)
	redisClient.LTrim(ctx, globalFeedKey, 0, 9999)
	redisClient.Expire(ctx, globalFeedKey, 7*24*time.Hour)
}
