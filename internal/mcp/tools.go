package mcp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"filemcp/internal/config"
	"filemcp/internal/registry"
	"filemcp/pkg/fileops"

	"github.com/adrg/frontmatter"
)

// promptFileName is an optional markdown file at the workspace root whose
// content is surfaced by init_project. YAML frontmatter with a description
// field is recognized, matching the rule-file convention.
const promptFileName = "PROMPT.md"

const truncatedNotice = "There are more than 1000 entries in the directory. " +
	"Use more specific paths to explore nested directories. " +
	"The first 1000 entries are included below:\n\n"

// promptMatter is the YAML frontmatter structure recognized in prompt files
type promptMatter struct {
	Description string `yaml:"description"`
}

// registerTools populates the registry with the file-operation tool set.
func (s *Server) registerTools(project config.ProjectConfig) error {
	descriptors := []registry.Descriptor{
		s.readFileTool(),
		s.writeFileTool(),
		s.editFileTool(),
		s.listDirectoryTool(),
		s.initProjectTool(project),
	}

	for _, desc := range descriptors {
		if err := s.registry.Register(desc); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) readFileTool() registry.Descriptor {
	return registry.Descriptor{
		Name:        "read_file",
		Description: "Read the content of a file inside the workspace.",
		Schema: registry.Schema{Fields: []registry.Field{
			{Name: "path", Type: registry.StringField, Required: true,
				Description: "Path of the file to read, absolute or relative to the workspace root"},
		}},
		Handler: func(ctx context.Context, args registry.Arguments) (string, error) {
			return s.executor.Read(ctx, args.String("path"))
		},
	}
}

func (s *Server) writeFileTool() registry.Descriptor {
	return registry.Descriptor{
		Name:        "write_file",
		Description: "Write content to a file inside the workspace. Existing files are only replaced when overwrite is set.",
		Schema: registry.Schema{Fields: []registry.Field{
			{Name: "path", Type: registry.StringField, Required: true,
				Description: "Path of the file to write, absolute or relative to the workspace root"},
			{Name: "content", Type: registry.StringField, Required: true,
				Description: "Content to write to the file"},
			{Name: "overwrite", Type: registry.BooleanField,
				Description: "Replace the file if it already exists (default false)"},
		}},
		Handler: func(ctx context.Context, args registry.Arguments) (string, error) {
			path := args.String("path")
			err := s.executor.Write(ctx, path, args.String("content"), args.Bool("overwrite", false))
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully wrote to %s", path), nil
		},
	}
}

func (s *Server) editFileTool() registry.Descriptor {
	return registry.Descriptor{
		Name:        "edit_file",
		Description: "Edit a file by replacing old_string with new_string. An empty old_string creates a new file.",
		Schema: registry.Schema{Fields: []registry.Field{
			{Name: "path", Type: registry.StringField, Required: true,
				Description: "Path of the file to edit, absolute or relative to the workspace root"},
			{Name: "old_string", Type: registry.StringField, Required: true,
				Description: "Text to replace; must match exactly. Empty to create a new file"},
			{Name: "new_string", Type: registry.StringField, Required: true,
				Description: "Replacement text"},
			{Name: "replace_all", Type: registry.BooleanField,
				Description: "Replace every occurrence instead of requiring a unique match (default false)"},
		}},
		Handler: func(ctx context.Context, args registry.Arguments) (string, error) {
			path := args.String("path")
			oldStr := args.String("old_string")
			err := s.executor.Edit(ctx, path, oldStr, args.String("new_string"), args.Bool("replace_all", false))
			if err != nil {
				return "", err
			}
			if oldStr == "" {
				return fmt.Sprintf("Successfully created new file %s", path), nil
			}
			return fmt.Sprintf("Successfully edited %s", path), nil
		},
	}
}

func (s *Server) listDirectoryTool() registry.Descriptor {
	return registry.Descriptor{
		Name:        "list_directory",
		Description: "List the contents of a directory inside the workspace, recursively.",
		Schema: registry.Schema{Fields: []registry.Field{
			{Name: "path", Type: registry.StringField, Required: true,
				Description: "Path of the directory to list, absolute or relative to the workspace root"},
		}},
		Handler: func(ctx context.Context, args registry.Arguments) (string, error) {
			entries, truncated, err := s.executor.List(ctx, args.String("path"))
			if err != nil {
				return "", err
			}
			return formatListing(entries, truncated), nil
		},
	}
}

func (s *Server) initProjectTool(project config.ProjectConfig) registry.Descriptor {
	return registry.Descriptor{
		Name:        "init_project",
		Description: "Return the project instructions configured for this workspace.",
		Schema:      registry.Schema{},
		Handler: func(ctx context.Context, args registry.Arguments) (string, error) {
			return s.projectInstructions(project), nil
		},
	}
}

// formatListing renders scan entries one per line, directories marked with a
// trailing slash. Entries arrive lexicographically sorted, so the output is
// stable across calls.
func formatListing(entries []fileops.Entry, truncated bool) string {
	var b strings.Builder
	if truncated {
		b.WriteString(truncatedNotice)
	}
	if len(entries) == 0 {
		b.WriteString("(empty directory)")
		return b.String()
	}
	for _, entry := range entries {
		b.WriteString(filepath.ToSlash(entry.Path))
		if entry.IsDir {
			b.WriteString("/")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// projectInstructions assembles the init_project payload: the configured
// project_prompt plus the optional PROMPT.md file at the workspace root.
func (s *Server) projectInstructions(project config.ProjectConfig) string {
	var sections []string

	if project.ProjectPrompt != "" {
		sections = append(sections, project.ProjectPrompt)
	}

	promptPath := filepath.Join(s.executor.Workspace().Root(), promptFileName)
	if content, err := os.ReadFile(promptPath); err == nil {
		var matter promptMatter
		body, err := frontmatter.Parse(bytes.NewReader(content), &matter)
		if err != nil {
			// No valid frontmatter; use the file as-is
			sections = append(sections, string(content))
		} else {
			if matter.Description != "" {
				sections = append(sections, matter.Description)
			}
			sections = append(sections, string(body))
		}
	}

	if len(sections) == 0 {
		return "No project instructions are configured for this workspace."
	}
	return strings.Join(sections, "\n\n")
}
