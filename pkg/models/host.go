package models

import "strings"

// --- Host Models ---

// GET /hosts/ answers with a bare JSON array of node names.
type HostList []string

// Contains reports whether the cluster has a node with that name.
func (h HostList) Contains(name string) bool {
	for _, n := range h {
		if n == name {
			return true
		}
	}
	return false
}

// --- Archive Models ---

type ListArchivesRequest struct {
	View      string `json:"view"`
	PageToken string `json:"page_token,omitempty"`
}

type ListArchivesResponse struct {
	Items         []Archive `json:"items"`
	NextPageToken string    `json:"next_page_token,omitempty"`
}

type Archive struct {
	AccessPoint string `json:"access_point"` // hosts/Server1/MultimediaStorage.Black/MultimediaStorage
	DisplayName string `json:"display_name"`
	IsEmbedded  bool   `json:"is_embedded"`
	IsDefault   bool   `json:"default"`
}

// StorageUID returns the configuration uid of the storage behind the archive
// access point ("hosts/Server1/MultimediaStorage.Black").
func (a Archive) StorageUID() string {
	return strings.TrimSuffix(a.AccessPoint, "/MultimediaStorage")
}
