/* handlers.go
 * Contains the HTTP handlers. Each handler decodes the request, calls into the api and writes the envelope
 * Authors: knockout-pool contributors
 */

package web

import (
	"net/http"

	"knockout-pool/api/api"

	"github.com/gin-gonic/gin"
)

func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return false
	}
	return true
}

func (s *Server) health(c *gin.Context) {
	respond(c, http.StatusOK, "ok", nil)
}

func (s *Server) register(c *gin.Context) {
	var creds api.Credentials
	if !bindJSON(c, &creds) {
		return
	}
	user, err := s.api.Register(c.Request.Context(), creds)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "User registered successfully", user)
}

func (s *Server) login(c *gin.Context) {
	var creds api.Credentials
	if !bindJSON(c, &creds) {
		return
	}
	session, err := s.api.Login(c.Request.Context(), creds)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Login successful", session)
}

func (s *Server) user(c *gin.Context) {
	user, err := s.api.GetUser(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "User fetched", user)
}

func (s *Server) teams(c *gin.Context) {
	teams, err := s.api.ListTeams(c.Request.Context(), c.Query("day"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Teams fetched", teams)
}

func (s *Server) availableTeams(c *gin.Context) {
	avail, err := s.api.AvailableTeams(c.Request.Context(), c.GetString(userIDKey), c.Query("day"), c.Query("pickId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Available teams fetched", avail)
}

func (s *Server) picks(c *gin.Context) {
	picks, err := s.api.ListPicks(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Picks fetched", picks)
}

func (s *Server) submitPicks(c *gin.Context) {
	var req api.SubmitRequest
	if !bindJSON(c, &req) {
		return
	}
	pick, err := s.api.SubmitPicks(c.Request.Context(), c.GetString(userIDKey), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Picks submitted successfully", pick)
}

func (s *Server) updatePicks(c *gin.Context) {
	var req api.UpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	pick, err := s.api.UpdatePicks(c.Request.Context(), c.GetString(userIDKey), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Picks updated successfully", pick)
}

func (s *Server) deletePick(c *gin.Context) {
	if err := s.api.DeletePick(c.Request.Context(), c.GetString(userIDKey), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Pick deleted successfully", nil)
}

func (s *Server) adminUsers(c *gin.Context) {
	users, err := s.api.AdminUsers(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Users fetched", users)
}

func (s *Server) adminPicks(c *gin.Context) {
	picks, err := s.api.AdminPicks(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Picks fetched", picks)
}

func (s *Server) settings(c *gin.Context) {
	settings, err := s.api.GetSettings(c.Request.Context(), c.Query("asOf"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Settings fetched", settings)
}

func (s *Server) updateSettings(c *gin.Context) {
	var req api.SettingsRequest
	if !bindJSON(c, &req) {
		return
	}
	settings, err := s.api.UpdateSettings(c.Request.Context(), c.GetString(userIDKey), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Settings updated successfully", settings)
}

func (s *Server) advanceDay(c *gin.Context) {
	settings, err := s.api.AdvanceDay(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Advanced to "+string(settings.CurrentDay), settings)
}

func (s *Server) settingsHistory(c *gin.Context) {
	history, err := s.api.SettingsHistory(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Settings history fetched", history)
}

func (s *Server) teamAvailability(c *gin.Context) {
	var req api.AvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}
	teams, err := s.api.SetTeamAvailability(c.Request.Context(), c.GetString(userIDKey), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Team availability updated successfully", teams)
}

func (s *Server) userRole(c *gin.Context) {
	var req api.RoleRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := s.api.SetUserRole(c.Request.Context(), c.GetString(userIDKey), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "User role updated", user)
}

func (s *Server) userStatus(c *gin.Context) {
	var req api.StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := s.api.SetUserStatus(c.Request.Context(), c.GetString(userIDKey), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "User status updated", user)
}
