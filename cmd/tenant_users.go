// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "Manage tenant members and invitations",
}

var inviteRole string

var listMembersCmd = &cobra.Command{
	Use:   "list [tenant-id]",
	Short: "List a tenant's members",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var out struct {
			Data []struct {
				ID          string `json:"id"`
				WorkspaceID string `json:"workspace_id"`
				IdentityID  string `json:"identity_id"`
				Role        string `json:"role"`
				Status      string `json:"status"`
				Email       string `json:"email"`
			} `json:"data"`
		}

		if err := newAPIClient().get(context.Background(), "/api/v0/tenants/"+args[0]+"/members", &out); err != nil {
			return fmt.Errorf("failed to list members: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tWORKSPACE\tIDENTITY\tROLE\tSTATUS\tEMAIL")
		for _, m := range out.Data {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", m.ID, m.WorkspaceID, m.IdentityID, m.Role, m.Status, m.Email)
		}
		w.Flush()
		return nil
	},
}

var inviteMemberCmd = &cobra.Command{
	Use:   "invite [tenant-id] [workspace-id] [email]",
	Short: "Invite a member into a workspace",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/api/v0/tenants/" + args[0] + "/workspaces/" + args[1] + "/invitations"
		err := newAPIClient().post(context.Background(), path, map[string]string{
			"email": args[2],
			"role":  inviteRole,
		}, nil)
		if err != nil {
			return fmt.Errorf("failed to invite member: %w", err)
		}

		fmt.Printf("Invitation sent to %s\n", args[2])
		return nil
	},
}

var acceptInvitationCmd = &cobra.Command{
	Use:   "accept [token]",
	Short: "Accept an invitation as the authenticated user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := newAPIClient().post(context.Background(), "/api/v0/invitations/accept", map[string]string{
			"token": args[0],
		}, nil)
		if err != nil {
			return fmt.Errorf("failed to accept invitation: %w", err)
		}

		fmt.Println("Invitation accepted")
		return nil
	},
}

var revokeInvitationCmd = &cobra.Command{
	Use:   "revoke [invitation-id]",
	Short: "Revoke a pending invitation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := newAPIClient().post(context.Background(), "/api/v0/invitations/"+args[0]+"/revoke", nil, nil)
		if err != nil {
			return fmt.Errorf("failed to revoke invitation: %w", err)
		}

		fmt.Printf("Invitation revoked: %s\n", args[0])
		return nil
	},
}

var removeMemberCmd = &cobra.Command{
	Use:   "remove [tenant-id] [membership-id]",
	Short: "Remove a member from their workspace",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := newAPIClient().delete(context.Background(), "/api/v0/tenants/"+args[0]+"/members/"+args[1])
		if err != nil {
			return fmt.Errorf("failed to remove member: %w", err)
		}

		fmt.Printf("Member removed: %s\n", args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(membersCmd)
	membersCmd.AddCommand(listMembersCmd)
	membersCmd.AddCommand(inviteMemberCmd)
	membersCmd.AddCommand(acceptInvitationCmd)
	membersCmd.AddCommand(revokeInvitationCmd)
	membersCmd.AddCommand(removeMemberCmd)

	inviteMemberCmd.Flags().StringVar(&inviteRole, "role", "member", "Role to grant on acceptance (owner or member)")
}
