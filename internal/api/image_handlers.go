package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"photo-server/internal/gallery"
	"photo-server/internal/provider"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type LoadResponse struct {
	Description string `json:"description"`
	DocumentID  string `json:"document_id,omitempty" example:"V1StGXR8_Z5jdHi6B-myT"`
}

type DeleteImageRequest struct {
	UserID string `json:"user_id" example:"42"`
}

type MessageResponse struct {
	Message string `json:"message" example:"Image deleted successfully"`
}

type GenerateResponse struct {
	ImageData      string `json:"image_data"`
	SavedToGallery bool   `json:"saved_to_gallery"`
}

// @Summary      Caption an uploaded image
// @Description  Runs the captioning model over the uploaded file. When a user_id form field is present the image is also stored in that user's gallery and the new document id is returned.
// @Tags         images
// @Accept       multipart/form-data
// @Produce      json
// @Param        file     formData  file    true   "Image file"
// @Param        user_id  formData  string  false  "Owner id; when present the upload is saved to the gallery"
// @Success      200      {object}  LoadResponse
// @Failure      400      {string}  string "Bad multipart form or invalid user id"
// @Failure      500      {string}  string "AI provider not configured"
// @Router       /load [post]
func (s *Server) LoadHandler(w http.ResponseWriter, r *http.Request) {
	if s.ai == nil {
		http.Error(w, "AI provider API key is not configured on the server", http.StatusInternalServerError)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<30)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Error parsing multipart form", http.StatusBadRequest)
		return
	}

	file, handler, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Error retrieving the file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Error reading the file", http.StatusInternalServerError)
		return
	}

	contentType := handler.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var ownerID *int64
	if ownerIDStr := r.FormValue("user_id"); ownerIDStr != "" {
		id, err := strconv.ParseInt(ownerIDStr, 10, 64)
		if err != nil {
			http.Error(w, "Invalid user ID format", http.StatusBadRequest)
			return
		}
		ownerID = &id
	}

	description, err := s.ai.Describe(r.Context(), data, contentType)
	if err != nil {
		description = provider.DefaultDescription
	}

	resp := LoadResponse{Description: description}

	if ownerID != nil {
		image, err := s.gallery.Upload(r.Context(), *ownerID, handler.Filename, contentType, data)
		if err != nil {
			http.Error(w, "Failed to save image", http.StatusInternalServerError)
			return
		}
		resp.DocumentID = image.ID
	}

	writeJSON(w, http.StatusOK, resp)
}

// @Summary      List a user's gallery
// @Description  Returns all images owned by user_id, newest first.
// @Tags         images
// @Produce      json
// @Param        user_id  query     string  true  "Owner id"
// @Success      200      {array}   models.Image
// @Failure      400      {string}  string "Missing or invalid user_id"
// @Failure      500      {string}  string "Internal Server Error"
// @Router       /images [get]
func (s *Server) ListImagesHandler(w http.ResponseWriter, r *http.Request) {
	ownerIDStr := r.URL.Query().Get("user_id")
	if ownerIDStr == "" {
		http.Error(w, "user_id query parameter is required", http.StatusBadRequest)
		return
	}
	ownerID, err := strconv.ParseInt(ownerIDStr, 10, 64)
	if err != nil {
		http.Error(w, "Invalid user ID format", http.StatusBadRequest)
		return
	}

	images, err := s.gallery.List(r.Context(), ownerID)
	if err != nil {
		http.Error(w, "Failed to list images", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, images)
}

// @Summary      Delete an image
// @Description  Deletes an image after verifying the requester owns it.
// @Tags         images
// @Accept       json
// @Produce      json
// @Param        imageId  path      string              true  "Image id"
// @Param        request  body      DeleteImageRequest  true  "Requesting user id"
// @Success      200      {object}  MessageResponse
// @Failure      400      {string}  string "Invalid image ID format"
// @Failure      403      {string}  string "Requester does not own the image"
// @Failure      404      {string}  string "Image not found"
// @Failure      500      {string}  string "Internal Server Error"
// @Router       /images/{imageId} [delete]
func (s *Server) DeleteImageHandler(w http.ResponseWriter, r *http.Request) {
	imageID := chi.URLParam(r, "imageId")
	if len(imageID) != gallery.IDLength {
		http.Error(w, "Invalid image ID format", http.StatusBadRequest)
		return
	}

	var req DeleteImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	requesterID, err := strconv.ParseInt(req.UserID, 10, 64)
	if err != nil {
		http.Error(w, "Invalid user ID format", http.StatusBadRequest)
		return
	}

	err = s.gallery.Delete(r.Context(), imageID, requesterID)
	if err != nil {
		if errors.Is(err, gallery.ErrImageNotFound) {
			http.Error(w, "Image not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, gallery.ErrNotOwner) {
			http.Error(w, "Forbidden: You do not have permission to delete this image", http.StatusForbidden)
			return
		}
		http.Error(w, "Failed to delete image", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Image deleted successfully"})
}

// @Summary      Generate an image from a prompt
// @Description  Calls the image-generation model. When user_id is present the result is stored in that user's gallery with a filename derived from the prompt.
// @Tags         images
// @Produce      json
// @Param        prompt   query     string  true   "Generation prompt"
// @Param        user_id  query     string  false  "Owner id; when present the result is saved to the gallery"
// @Success      200      {object}  GenerateResponse
// @Failure      400      {string}  string "Missing prompt or invalid user id"
// @Failure      500      {string}  string "Provider unconfigured or response unparseable"
// @Failure      503      {string}  string "Image generation service failed"
// @Router       /generate [get]
func (s *Server) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	if s.ai == nil {
		http.Error(w, "AI provider API key is not configured on the server", http.StatusInternalServerError)
		return
	}

	prompt := r.URL.Query().Get("prompt")
	if prompt == "" {
		http.Error(w, "prompt query parameter is required", http.StatusBadRequest)
		return
	}

	var ownerID *int64
	if ownerIDStr := r.URL.Query().Get("user_id"); ownerIDStr != "" {
		id, err := strconv.ParseInt(ownerIDStr, 10, 64)
		if err != nil {
			http.Error(w, "Invalid user ID format", http.StatusBadRequest)
			return
		}
		ownerID = &id
	}

	data, mimeType, err := s.ai.Generate(r.Context(), prompt)
	if err != nil {
		var provErr *provider.Error
		if errors.As(err, &provErr) {
			http.Error(w, fmt.Sprintf("Failed to connect to image generation service: %s", provErr.Error()), http.StatusServiceUnavailable)
			return
		}
		if errors.Is(err, provider.ErrNoImage) {
			http.Error(w, "Failed to parse image data from API response", http.StatusInternalServerError)
			return
		}
		http.Error(w, "An unexpected error occurred during image generation", http.StatusInternalServerError)
		return
	}

	image, err := s.gallery.SaveGenerated(r.Context(), ownerID, prompt, mimeType, data)
	if err != nil {
		http.Error(w, "Failed to save generated image", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, GenerateResponse{
		ImageData:      base64.StdEncoding.EncodeToString(data),
		SavedToGallery: image != nil,
	})
}
