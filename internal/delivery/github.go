package delivery

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"

	"adapterforge/internal/gateway/identity"
	"adapterforge/internal/generator"
)

// GitHubOptions configures a single remote-repository delivery.
type GitHubOptions struct {
	// RepoName is the repository to create. Required.
	RepoName string
	// Org, when set, creates the repository under that organization
	// instead of the authenticated user.
	Org string
	// Private creates a private repository.
	Private bool
	// HTTPClient and BaseURL override the upstream API endpoint; used in
	// tests against a fake host.
	HTTPClient *http.Client
	BaseURL    string
}

// GitHubDeliverer creates a repository under the authenticated user (or a
// selected org) and pushes the generated tree as a single initial commit
// through the Git data API.
type GitHubDeliverer struct {
	client *github.Client
	user   *identity.User
	opts   GitHubOptions

	// resolved during Authorize
	login       string
	authorName  string
	authorEmail string
}

func NewGitHubDeliverer(user *identity.User, opts GitHubOptions) (*GitHubDeliverer, error) {
	if strings.TrimSpace(opts.RepoName) == "" {
		return nil, fmt.Errorf("repository name is required")
	}
	client := github.NewClient(opts.HTTPClient)
	if opts.BaseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(opts.BaseURL, opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("configure api endpoint: %w", err)
		}
	}
	if user != nil && user.Token != "" {
		client = client.WithAuthToken(user.Token)
	}
	return &GitHubDeliverer{client: client, user: user, opts: opts}, nil
}

// Authorize verifies the delegated credential before any generation work
// runs: the token must authenticate and carry a scope that allows creating
// repositories. It also resolves the commit author identity.
func (d *GitHubDeliverer) Authorize(ctx context.Context) error {
	if d.user == nil || strings.TrimSpace(d.user.Token) == "" {
		return fmt.Errorf("%w: no credential attached to this session", ErrUnauthorized)
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	me, resp, err := d.client.Users.Get(ctx, "")
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return fmt.Errorf("%w: credential rejected by host", ErrUnauthorized)
		}
		return fmt.Errorf("verify credential: %w", err)
	}
	if !hasRepoScope(resp.Header.Get("X-Oauth-Scopes")) {
		return fmt.Errorf("%w: token lacks the repo scope", ErrUnauthorized)
	}

	d.login = me.GetLogin()
	d.authorName = firstNonEmpty(d.user.Name, me.GetName(), d.login)
	d.authorEmail = firstNonEmpty(d.user.Email, me.GetEmail())
	if d.authorEmail == "" {
		d.authorEmail = d.primaryEmail(ctx)
	}
	if d.authorEmail == "" {
		d.authorEmail = d.login + "@users.noreply.github.com"
	}
	return nil
}

// hasRepoScope reports whether the X-Oauth-Scopes header grants repository
// creation. Fine-grained tokens omit the header entirely, so an empty value
// does not pass.
func hasRepoScope(header string) bool {
	for _, scope := range strings.Split(header, ",") {
		switch strings.TrimSpace(scope) {
		case "repo", "public_repo":
			return true
		}
	}
	return false
}

func (d *GitHubDeliverer) primaryEmail(ctx context.Context) string {
	emails, _, err := d.client.Users.ListEmails(ctx, &github.ListOptions{PerPage: 50})
	if err != nil {
		return ""
	}
	for _, e := range emails {
		if e.GetPrimary() {
			return e.GetEmail()
		}
	}
	if len(emails) > 0 {
		return emails[0].GetEmail()
	}
	return ""
}

// Deliver creates the repository and uploads the tree as one commit on the
// default branch. A failure mid-upload leaves the repository behind with
// only its auto-init commit; the client is told to retry with a new name.
func (d *GitHubDeliverer) Deliver(ctx context.Context, runID string, tree *generator.Tree) (string, error) {
	if tree == nil || tree.Len() == 0 {
		return "", fmt.Errorf("nothing to push")
	}
	emit := generator.EmitterFrom(ctx)

	owner := d.login
	if d.opts.Org != "" {
		owner = d.opts.Org
	}
	repo, _, err := d.client.Repositories.Create(ctx, d.opts.Org, &github.Repository{
		Name:     github.Ptr(d.opts.RepoName),
		Private:  github.Ptr(d.opts.Private),
		AutoInit: github.Ptr(true),
	})
	if err != nil {
		return "", fmt.Errorf("create repository %s/%s: %w", owner, d.opts.RepoName, err)
	}
	emit.Log(fmt.Sprintf("Created repository %s/%s", owner, repo.GetName()), "")

	branch := repo.GetDefaultBranch()
	if branch == "" {
		branch = "main"
	}
	ref, err := d.headRef(ctx, owner, repo.GetName(), branch)
	if err != nil {
		return "", err
	}

	emit.Log(fmt.Sprintf("Uploading %d files...", tree.Len()), "")
	entries := make([]*github.TreeEntry, 0, tree.Len())
	for _, f := range tree.Files() {
		blob, _, err := d.client.Git.CreateBlob(ctx, owner, repo.GetName(), &github.Blob{
			Content:  github.Ptr(base64.StdEncoding.EncodeToString(f.Content)),
			Encoding: github.Ptr("base64"),
		})
		if err != nil {
			return "", fmt.Errorf("upload %s: %w", f.Path, err)
		}
		mode := "100644"
		if f.Executable {
			mode = "100755"
		}
		entries = append(entries, &github.TreeEntry{
			Path: github.Ptr(f.Path),
			Mode: github.Ptr(mode),
			Type: github.Ptr("blob"),
			SHA:  blob.SHA,
		})
	}

	newTree, _, err := d.client.Git.CreateTree(ctx, owner, repo.GetName(), ref.Object.GetSHA(), entries)
	if err != nil {
		return "", fmt.Errorf("create tree: %w", err)
	}

	author := &github.CommitAuthor{
		Name:  github.Ptr(d.authorName),
		Email: github.Ptr(d.authorEmail),
		Date:  &github.Timestamp{Time: time.Now().UTC()},
	}
	commit, _, err := d.client.Git.CreateCommit(ctx, owner, repo.GetName(), &github.Commit{
		Message: github.Ptr("Initial commit by adapter creator"),
		Tree:    newTree,
		Parents: []*github.Commit{{SHA: github.Ptr(ref.Object.GetSHA())}},
		Author:  author,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("create commit: %w", err)
	}

	ref.Object.SHA = commit.SHA
	if _, _, err := d.client.Git.UpdateRef(ctx, owner, repo.GetName(), ref, false); err != nil {
		return "", fmt.Errorf("update %s: %w", ref.GetRef(), err)
	}
	emit.Log(fmt.Sprintf("Pushed %d files to %s", tree.Len(), branch), "")

	if runID != "" {
		emit.Log(fmt.Sprintf("Run %s delivered to %s/%s", runID, owner, repo.GetName()), "")
	}
	if url := repo.GetHTMLURL(); url != "" {
		return url, nil
	}
	return "https://github.com/" + owner + "/" + repo.GetName(), nil
}

// headRef fetches the branch head created by auto-init. Repository
// bootstrap on the host is eventually consistent, so a few short retries
// cover the window where the ref is not visible yet.
func (d *GitHubDeliverer) headRef(ctx context.Context, owner, repo, branch string) (*github.Reference, error) {
	var lastErr error
	for attempt := 0; attempt < 5; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 300 * time.Millisecond):
			}
		}
		ref, _, err := d.client.Git.GetRef(ctx, owner, repo, "heads/"+branch)
		if err == nil && ref.Object.GetSHA() != "" {
			return ref, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("resolve heads/%s: %w", branch, lastErr)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
