package handlers

import "net/http"

// ListModels returns the virtual model catalog used to build prompts.
func (a *App) ListModels(w http.ResponseWriter, r *http.Request) {
	models, err := a.Models.List(r.Context())
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to list models")
		return
	}
	items := make([]map[string]any, 0, len(models))
	for _, model := range models {
		items = append(items, map[string]any{
			"id":        model.ID,
			"name":      model.Name,
			"gender":    model.Gender,
			"bodyType":  model.BodyType,
			"ethnicity": model.Ethnicity,
			"styleTags": model.StyleTags,
			"imageUrl":  model.ImageURL,
		})
	}
	a.data(w, http.StatusOK, items)
}
