package bookmark

import (
	"encoding/json"
	"net/http"

	"github.com/careerdeck/careerdeck/internal/middleware"
	"github.com/careerdeck/careerdeck/internal/server"
	"github.com/microcosm-cc/bluemonday"
)

func BookmarksHandler(svr server.Server, bookmarkRepo *Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.Log(err, "unable to retrieve user from JWT")
			svr.JSON(w, http.StatusForbidden, nil)
			return
		}

		bookmarks, err := bookmarkRepo.GetBookmarksForUser(profile.UserID)
		if err != nil {
			svr.Log(err, "GetBookmarksForUser")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}

		svr.JSON(w, http.StatusOK, map[string]interface{}{
			"bookmarks": bookmarks,
		})
	}
}

func SaveBookmarkHandler(svr server.Server, bookmarkRepo *Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.Log(err, "unable to retrieve user from JWT")
			svr.JSON(w, http.StatusForbidden, nil)
			return
		}
		req := struct {
			PostingID string `json:"postingId"`
			Title     string `json:"title"`
			Company   string `json:"company"`
			Location  string `json:"location"`
			JobType   string `json:"jobType"`
			Applied   bool   `json:"applied"`
		}{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"status": "error"})
			return
		}
		if req.PostingID == "" {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"status": "posting id is required"})
			return
		}
		p := bluemonday.StrictPolicy()
		b := Bookmark{
			UserID:    profile.UserID,
			PostingID: p.Sanitize(req.PostingID),
			Title:     p.Sanitize(req.Title),
			Company:   p.Sanitize(req.Company),
			Location:  p.Sanitize(req.Location),
			JobType:   p.Sanitize(req.JobType),
		}
		if err := bookmarkRepo.BookmarkPosting(b, req.Applied); err != nil {
			svr.Log(err, "unable to save bookmark")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func DeleteBookmarkHandler(svr server.Server, bookmarkRepo *Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.Log(err, "unable to retrieve user from JWT")
			svr.JSON(w, http.StatusForbidden, nil)
			return
		}
		req := struct {
			PostingID string `json:"postingId"`
		}{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"status": "error"})
			return
		}
		if err := bookmarkRepo.DeleteBookmark(profile.UserID, req.PostingID); err != nil {
			svr.Log(err, "unable to delete bookmark")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
