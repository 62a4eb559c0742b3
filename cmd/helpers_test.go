package cmd

import "github.com/meysamhadeli/codepack/packer/models"

func samplePackedProject() *models.PackedProject {
	return &models.PackedProject{
		Source:             "myproject.zip",
		DirectoryStructure: "myproject\n└── a.txt",
		Files: []models.ProjectFile{
			{Path: "a.txt", Filename: "a.txt", Content: "hello", Size: 5, Language: "text"},
		},
		TokenCount:    42,
		PackedContent: "packed content",
		Checksum:      "00000000deadbeef",
	}
}
