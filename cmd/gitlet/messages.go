package main

import (
	"errors"

	"github.com/odvcencio/gitlet/pkg/merge"
	"github.com/odvcencio/gitlet/pkg/objects"
	"github.com/odvcencio/gitlet/pkg/refstore"
	"github.com/odvcencio/gitlet/pkg/remote"
	"github.com/odvcencio/gitlet/pkg/repo"
	"github.com/odvcencio/gitlet/pkg/snapshot"
	"github.com/odvcencio/gitlet/pkg/staging"
	"github.com/odvcencio/gitlet/pkg/vcslog"
	"github.com/odvcencio/gitlet/pkg/worktree"
)

// errNoCommand, errUnknownCommand and errBadOperands back the three
// CLI-dispatch messages spec.md §6 specifies; every other message comes
// from a package sentinel.
var errNoCommand = errors.New("Please enter a command.")
var errUnknownCommand = errors.New("No command with that name exists.")
var errBadOperands = errors.New("Incorrect operands.")

// messageTable pairs each package sentinel with spec.md §6's exact
// user-visible wording. Order does not matter: errorMessage walks it with
// errors.Is, which is unambiguous because each sentinel is distinct.
var messageTable = []struct {
	err     error
	message string
}{
	{repo.ErrAlreadyInitialized, "A Gitlet version-control system already exists in the current directory."},
	{repo.ErrNotInitialized, "Not in an initialized Gitlet directory."},
	{staging.ErrFileAbsent, "File does not exist."},
	{staging.ErrNothingToRemove, "No reason to remove the file."},
	{snapshot.ErrNothingToCommit, "No changes added to the commit."},
	{snapshot.ErrEmptyMessage, "Please enter a commit message."},
	{vcslog.ErrNoCommitWithMessage, "Found no commit with that message."},
	{worktree.ErrFileNotInCommit, "File does not exist in that commit."},
	{objects.ErrNoSuchCommit, "No commit with that id exists."},
	{objects.ErrAmbiguousPrefix, "Prefix not unique."},
	{refstore.ErrBranchExists, "A branch with that name already exists."},
	{refstore.ErrNoSuchBranch, "A branch with that name does not exist."},
	{refstore.ErrDeletingCurrent, "Cannot remove the current branch."},
	{worktree.ErrAlreadyOnBranch, "No need to checkout the current branch."},
	{worktree.ErrUntrackedOverwrite, "There is an untracked file in the way; delete it, or add and commit it first."},
	{merge.ErrUncommittedChanges, "You have uncommited changes."},
	{merge.ErrSelfMerge, "Cannot merge a branch with itself."},
	{refstore.ErrRemoteExists, "A remote with that name already exists."},
	{refstore.ErrNoSuchRemote, "A remote with that name does not exist."},
	{remote.ErrRemoteMissing, "Remote directory not found."},
	{remote.ErrPushNotFastForward, "Please pull down remote changes before pushing."},
	{remote.ErrNoSuchRemoteBranch, "That remote does not have that branch."},
	{errNoCommand, "Please enter a command."},
	{errUnknownCommand, "No command with that name exists."},
	{errBadOperands, "Incorrect operands."},
}

// errorMessage maps a handled error to the exact string spec.md §6
// contracts on; unrecognized errors fall back to err.Error() so nothing is
// silently swallowed during development.
func errorMessage(err error) string {
	for _, entry := range messageTable {
		if errors.Is(err, entry.err) {
			return entry.message
		}
	}
	return err.Error()
}
