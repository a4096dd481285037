package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"todotree/internal/output"
	"todotree/internal/tree"
)

// printTree expands and prints the whole tree: every list's subtree in
// service order, then the create-list affordance. Without a session the
// root is empty and nothing prints.
func printTree(ctx context.Context, kit *Kit, out io.Writer) error {
	nodes, err := kit.Tree.RootChildren(ctx)
	if err != nil {
		return err
	}

	letter := 'a'
	for _, node := range nodes {
		switch n := node.(type) {
		case tree.ListNode:
			prefix := ""
			// Letters run a-z over the non-default lists; lists past z
			// stay unlettered and are addressed by --list instead.
			if !n.List.IsDefault() && letter <= 'z' {
				prefix = string(letter)
				letter++
			}
			if err := printList(ctx, kit, n, prefix, out); err != nil {
				return err
			}
		case tree.CreateListNode:
			output.FormatCreateLeaf(out, tree.Describe(n))
		case tree.GroupNode, tree.TaskNode:
			return fmt.Errorf("unexpected %T at tree root", node)
		default:
			return fmt.Errorf("unknown node kind %T", node)
		}
	}
	return nil
}

// printList prints one list's subtree: header, then each status group
// heading with its tasks. Task numbers are 1-based across the two
// groups, so a reference stays valid whichever group holds the task.
func printList(ctx context.Context, kit *Kit, node tree.ListNode, letter string, out io.Writer) error {
	output.FormatListHeader(out, tree.Describe(node))

	groups, err := kit.Tree.Children(ctx, node)
	if err != nil {
		return err
	}

	num := 1
	for _, group := range groups {
		output.FormatGroupHeading(out, tree.Describe(group))

		tasks, err := kit.Tree.Children(ctx, group)
		if err != nil {
			return err
		}
		for _, task := range tasks {
			output.FormatTaskLine(out, letter+strconv.Itoa(num), tree.Describe(task))
			num++
		}
	}
	return nil
}

// printListSubtree looks a list up by id against a fresh root expansion
// and prints its subtree with the letter it holds in the full tree.
func printListSubtree(ctx context.Context, kit *Kit, listID string, out io.Writer) error {
	nodes, err := kit.Tree.RootChildren(ctx)
	if err != nil {
		return err
	}
	letter := 'a'
	for _, node := range nodes {
		ln, ok := node.(tree.ListNode)
		if !ok {
			continue
		}
		prefix := ""
		if !ln.List.IsDefault() && letter <= 'z' {
			prefix = string(letter)
			letter++
		}
		if ln.List.ID == listID {
			return printList(ctx, kit, ln, prefix, out)
		}
	}
	// The list is gone; the subtree prints as nothing.
	return nil
}
