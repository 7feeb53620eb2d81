package routes

import (
	"stay-and-go-server/models"
	"stay-and-go-server/storage"
	"stay-and-go-server/utils"

	"github.com/kataras/iris/v12"
)

func GetMyNotifications(ctx iris.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		utils.JSONFail(ctx, iris.StatusUnauthorized, "Authentication required.")
		return
	}

	var notifications []models.Notification
	err := storage.DB.Where("user_id = ?", claims.ID).
		Order("created_at DESC").Limit(100).
		Find(&notifications).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.StatusOK, "", notifications)
}

func MarkNotificationRead(ctx iris.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		utils.JSONFail(ctx, iris.StatusUnauthorized, "Authentication required.")
		return
	}

	id := ctx.Params().Get("id")

	var notification models.Notification
	query := storage.DB.Where("id = ? AND user_id = ?", id, claims.ID).Limit(1).Find(&notification)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if query.RowsAffected == 0 {
		utils.JSONFail(ctx, iris.StatusNotFound, "Notification not found.")
		return
	}

	notification.IsRead = true
	if err := storage.DB.Save(&notification).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.StatusOK, "Notification marked as read.", &notification)
}
