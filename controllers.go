package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// -----------------------------
// Helper functions
// -----------------------------

func jsonError(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"error": msg})
}

func registrationID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		jsonError(c, http.StatusBadRequest, "invalid registration id")
		return 0, false
	}
	return uint(id), true
}

// sortColumns whitelists sortBy values; anything else silently falls back
// to created_at.
var sortColumns = map[string]string{
	"fullName":      "full_name",
	"contactDate":   "contact_date",
	"contactMethod": "contact_method",
	"isRegistered":  "is_registered",
	"country":       "country",
	"createdAt":     "created_at",
}

// -----------------------------
// Registrations
// -----------------------------

// CreateRegistrations inserts a batch of records in one transaction:
// either every row commits or none do.
func CreateRegistrations(c *gin.Context) {
	var body CreateRegistrationsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if err := DB.Transaction(func(tx *gorm.DB) error {
		for i := range body.Registrations {
			reg := body.Registrations[i].ToModel()
			if err := tx.Create(&reg).Error; err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		log.Error().Err(err).Int("count", len(body.Registrations)).Msg("batch insert failed")
		jsonError(c, http.StatusInternalServerError, "could not save registrations")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "registrations created",
		"count":   len(body.Registrations),
	})
}

func ListRegistrations(c *gin.Context) {
	orderBy, ok := sortColumns[c.Query("sortBy")]
	if !ok {
		orderBy = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(c.Query("sortOrder"), "asc") {
		order = "ASC"
	}

	query := DB.Order(orderBy + " " + order)
	if country := c.Query("country"); country != "" {
		query = query.Where("country = ?", country)
	}
	if method := c.Query("contactMethod"); method != "" {
		query = query.Where("contact_method = ?", method)
	}

	var regs []Registration
	if err := query.Find(&regs).Error; err != nil {
		log.Error().Err(err).Msg("list query failed")
		jsonError(c, http.StatusInternalServerError, "could not load registrations")
		return
	}

	// The label is derived, not stored, so the monthWeek filter is applied
	// here instead of in SQL. The list is unpaginated by contract anyway.
	monthWeek := c.Query("monthWeek")
	out := make([]Registration, 0, len(regs))
	for i := range regs {
		regs[i].DeriveMonthWeek()
		if monthWeek != "" && regs[i].MonthWeekLabel != monthWeek {
			continue
		}
		out = append(out, regs[i])
	}

	c.JSON(http.StatusOK, out)
}

func GetRegistration(c *gin.Context) {
	id, ok := registrationID(c)
	if !ok {
		return
	}

	var reg Registration
	if err := DB.First(&reg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(c, http.StatusNotFound, "registration not found")
			return
		}
		log.Error().Err(err).Uint("id", id).Msg("get query failed")
		jsonError(c, http.StatusInternalServerError, "could not load registration")
		return
	}

	reg.DeriveMonthWeek()
	c.JSON(http.StatusOK, reg)
}

// UpdateRegistration overwrites every mutable field; there is no partial
// merge, omitted optional fields become null.
func UpdateRegistration(c *gin.Context) {
	id, ok := registrationID(c)
	if !ok {
		return
	}

	var body UpdateRegistrationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	var reg Registration
	if err := DB.First(&reg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(c, http.StatusNotFound, "registration not found")
			return
		}
		log.Error().Err(err).Uint("id", id).Msg("update lookup failed")
		jsonError(c, http.StatusInternalServerError, "could not load registration")
		return
	}

	reg.FullName = strings.TrimSpace(body.FullName)
	reg.IsNewUser = *body.IsNewUser
	reg.Gender = optional(body.Gender)
	reg.Phone = optional(body.Phone)
	reg.Email = optional(body.Email)
	reg.Position = optional(body.Position)
	reg.Organization = optional(body.Organization)
	reg.ContactDate = body.ContactDate
	reg.ContactMethod = body.ContactMethod
	reg.ContactSubMethod = body.ContactSubMethod
	reg.ContactContent = optional(body.ContactContent)
	reg.IsRegistered = *body.IsRegistered

	if err := DB.Save(&reg).Error; err != nil {
		log.Error().Err(err).Uint("id", id).Msg("update failed")
		jsonError(c, http.StatusInternalServerError, "could not update registration")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "registration updated"})
}

// PatchRegistrationStatus toggles is_registered and nothing else.
func PatchRegistrationStatus(c *gin.Context) {
	id, ok := registrationID(c)
	if !ok {
		return
	}

	var body PatchStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "isRegistered (boolean) is required")
		return
	}

	var reg Registration
	if err := DB.First(&reg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(c, http.StatusNotFound, "registration not found")
			return
		}
		log.Error().Err(err).Uint("id", id).Msg("status lookup failed")
		jsonError(c, http.StatusInternalServerError, "could not load registration")
		return
	}

	if err := DB.Model(&reg).Update("is_registered", *body.IsRegistered).Error; err != nil {
		log.Error().Err(err).Uint("id", id).Msg("status update failed")
		jsonError(c, http.StatusInternalServerError, "could not update registration status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "registration status updated",
		"id":           reg.ID,
		"isRegistered": *body.IsRegistered,
	})
}

// DeleteRegistration is a hard delete, there is no soft-delete column.
func DeleteRegistration(c *gin.Context) {
	id, ok := registrationID(c)
	if !ok {
		return
	}

	var reg Registration
	if err := DB.First(&reg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(c, http.StatusNotFound, "registration not found")
			return
		}
		log.Error().Err(err).Uint("id", id).Msg("delete lookup failed")
		jsonError(c, http.StatusInternalServerError, "could not load registration")
		return
	}

	if err := DB.Delete(&reg).Error; err != nil {
		log.Error().Err(err).Uint("id", id).Msg("delete failed")
		jsonError(c, http.StatusInternalServerError, "could not delete registration")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "registration deleted"})
}

// -----------------------------
// Health
// -----------------------------

func HealthCheck(c *gin.Context) {
	sqlDB, err := DB.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "reason": "store_unavailable"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "reason": "store_unavailable"})
		return
	}

	var now string
	if err := DB.Raw("SELECT CURRENT_TIMESTAMP").Scan(&now).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "reason": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "now": now})
}
